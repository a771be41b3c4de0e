package handler

import (
	"net/http"

	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/leading"
)

func ListLeads(service leading.Leader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		leads, err := service.ListLeads(r.Context(), userClaims.BusinessID, domain.LeadFilters{
			Status: domain.LeadStatus(r.URL.Query().Get("status")),
			Search: r.URL.Query().Get("search"),
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, leads)
	}
}

func GetLead(service leading.Leader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		leadID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		lead, err := service.GetLead(r.Context(), userClaims.BusinessID, leadID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, lead)
	}
}

func CreateLead(service leading.Leader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		var req domain.CreateLeadRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.BusinessID = userClaims.BusinessID

		lead, err := service.CreateLead(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, lead)
	}
}

func UpdateLead(service leading.Leader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		leadID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.UpdateLeadRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.ID = leadID
		req.BusinessID = userClaims.BusinessID

		lead, err := service.UpdateLead(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, lead)
	}
}

func DeleteLead(service leading.Leader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		leadID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := service.DeleteLead(r.Context(), userClaims.BusinessID, leadID); err != nil {
			handleError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
