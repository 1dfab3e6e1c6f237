package handlers

import (
	"strings"

	"github.com/spec-kit/blood-donation-service/internal/api/dto"
	"github.com/spec-kit/blood-donation-service/internal/domain"
	"github.com/spec-kit/blood-donation-service/internal/service"
)

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		BirthDate:    formatDate(u.BirthDate),
		BloodType:    u.BloodType,
		Role:         u.Role,
		Address:      u.Address,
		City:         u.City,
		PostalCode:   u.PostalCode,
		HospitalName: u.HospitalName,
		Latitude:     u.Latitude,
		Longitude:    u.Longitude,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userList(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}

func bloodRequestResponse(r *domain.BloodRequest, counts domain.ResponseCounts) dto.BloodRequestResponse {
	return dto.BloodRequestResponse{
		ID:                    r.ID,
		HospitalID:            r.HospitalID,
		BloodType:             r.BloodType,
		QuantityML:            r.QuantityML,
		Urgency:               r.Urgency,
		Description:           r.Description,
		Latitude:              r.Latitude,
		Longitude:             r.Longitude,
		SearchRadiusKm:        r.SearchRadiusKm,
		HospitalName:          r.HospitalName,
		HospitalAddress:       r.HospitalAddress,
		ContactPhone:          r.ContactPhone,
		ContactEmail:          r.ContactEmail,
		Deadline:              r.Deadline,
		Status:                r.Status,
		Notes:                 r.Notes,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		ResponseCount:         counts.Total,
		PendingResponseCount:  counts.Pending,
		AcceptedResponseCount: counts.Accepted,
	}
}

func bloodRequestList(requests []domain.BloodRequest, counts map[string]domain.ResponseCounts) []dto.BloodRequestResponse {
	items := make([]dto.BloodRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, bloodRequestResponse(&requests[i], counts[requests[i].ID]))
	}
	return items
}

func donorResponse(d service.ResponseDetails) dto.DonorResponse {
	r := d.Response
	out := dto.DonorResponse{
		ID:           r.ID,
		RequestID:    r.RequestID,
		DonorID:      r.DonorID,
		Status:       r.Status,
		Message:      r.Message,
		ResponseDate: r.ResponseDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if d.Donor != nil {
		out.DonorName = strings.TrimSpace(d.Donor.FirstName + " " + d.Donor.LastName)
		out.DonorEmail = d.Donor.Email
		out.DonorPhone = d.Donor.PhoneNumber
		out.DonorBloodType = d.Donor.BloodType
	}
	if d.Request != nil {
		out.RequestDescription = d.Request.Description
		out.HospitalName = d.Request.HospitalName
	}
	return out
}

func donorResponseList(details []service.ResponseDetails) []dto.DonorResponse {
	items := make([]dto.DonorResponse, 0, len(details))
	for _, d := range details {
		items = append(items, donorResponse(d))
	}
	return items
}

func contactResponse(c *domain.Contact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		BirthDate:    formatDate(c.BirthDate),
		BloodType:    c.BloodType,
		Relationship: c.Relationship,
		Address:      c.Address,
		City:         c.City,
		PostalCode:   c.PostalCode,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func contactList(contacts []domain.Contact) []dto.ContactResponse {
	items := make([]dto.ContactResponse, 0, len(contacts))
	for i := range contacts {
		items = append(items, contactResponse(&contacts[i]))
	}
	return items
}
