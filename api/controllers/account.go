package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/boutiquemaison/storefront-backend/api/responses"
	"github.com/boutiquemaison/storefront-backend/api/validators"
	accountsvc "github.com/boutiquemaison/storefront-backend/internal/accounts"
	"github.com/boutiquemaison/storefront-backend/pkg/db/models"
	"github.com/boutiquemaison/storefront-backend/pkg/enums"
	pkgerrors "github.com/boutiquemaison/storefront-backend/pkg/errors"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
)

type updateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	BirthDate  *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Newsletter *bool   `json:"newsletter"`
}

type saveAddressRequest struct {
	Label      string `json:"label" validate:"omitempty,max=50"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"omitempty,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
	Type       string `json:"type" validate:"required,oneof=shipping billing both"`
	IsDefault  bool   `json:"is_default"`
}

type profileResponse struct {
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Phone      string  `json:"phone,omitempty"`
	BirthDate  *string `json:"birth_date,omitempty"`
	Newsletter bool    `json:"newsletter"`
}

type addressResponse struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	Type       string    `json:"type"`
	IsDefault  bool      `json:"is_default"`
}

func toProfileResponse(view *accountsvc.ProfileView) profileResponse {
	resp := profileResponse{
		Email:     view.User.Email,
		FirstName: view.User.FirstName,
		LastName:  view.User.LastName,
	}
	if view.Profile != nil {
		resp.Phone = view.Profile.Phone
		resp.Newsletter = view.Profile.Newsletter
		if view.Profile.BirthDate != nil {
			formatted := view.Profile.BirthDate.Format("2006-01-02")
			resp.BirthDate = &formatted
		}
	}
	return resp
}

func toAddressResponse(a models.Address) addressResponse {
	return addressResponse{
		ID:         a.ID,
		Label:      a.Label,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		Type:       a.Type.String(),
		IsDefault:  a.IsDefault,
	}
}

func ProfileFetch(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProfileResponse(view))
	}
}

func ProfileUpdate(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := accountsvc.UpdateProfileInput{
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Phone:      payload.Phone,
			Newsletter: payload.Newsletter,
		}
		if payload.BirthDate != nil {
			parsed, err := time.Parse("2006-01-02", *payload.BirthDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid birth_date"))
				return
			}
			input.BirthDate = &parsed
		}

		view, err := svc.UpdateProfile(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProfileResponse(view))
	}
}

func AddressList(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addresses, err := svc.ListAddresses(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]addressResponse, 0, len(addresses))
		for _, a := range addresses {
			out = append(out, toAddressResponse(a))
		}
		responses.WriteSuccess(w, map[string]any{"addresses": out})
	}
}

func AddressCreate(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return saveAddress(svc, logg, false)
}

func AddressUpdate(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return saveAddress(svc, logg, true)
}

func saveAddress(svc accountsvc.Service, logg *logger.Logger, update bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addrType, err := enums.ParseAddressType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address type"))
			return
		}

		input := accountsvc.SaveAddressInput{
			Label:      payload.Label,
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Line1:      payload.Line1,
			Line2:      payload.Line2,
			City:       payload.City,
			PostalCode: payload.PostalCode,
			Country:    payload.Country,
			Phone:      payload.Phone,
			Type:       addrType,
			IsDefault:  payload.IsDefault,
		}

		status := http.StatusCreated
		if update {
			addressID, err := uuidParam(r, "addressId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ID = &addressID
			status = http.StatusOK
		}

		address, err := svc.SaveAddress(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, toAddressResponse(*address))
	}
}

func AddressDelete(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := uuidParam(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteAddress(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
