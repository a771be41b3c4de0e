package handler

import (
	"net/http"

	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/selling"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/utils"
)

// QuickSale registra uma venda de balcão em nome do usuário autenticado
func QuickSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		var req domain.CheckoutRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.BusinessID = userClaims.BusinessID
		req.SoldBy = userClaims.UserID

		resp, err := service.Checkout(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

func GetSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		saleID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		sale, err := service.GetSale(r.Context(), userClaims.BusinessID, saleID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

func ListSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		startDate, endDate, err := utils.ParseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}
		leadID, ok := queryID(w, r, "lead_id")
		if !ok {
			return
		}

		sales, err := service.ListSales(r.Context(), userClaims.BusinessID, domain.SaleFilters{
			StartDate: startDate,
			EndDate:   endDate,
			LeadID:    leadID,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, sales)
	}
}

func ListLeadSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		leadID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		sales, err := service.ListLeadSales(r.Context(), userClaims.BusinessID, leadID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, sales)
	}
}
