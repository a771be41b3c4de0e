package handler

import (
	"net/http"

	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/utils"
)

func StockIn(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.StockInRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.BusinessID = userClaims.BusinessID
		req.ProductID = productID
		req.CreatedBy = userClaims.UserID

		movement, err := service.StockIn(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, movement)
	}
}

func AdjustStock(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.StockAdjustmentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.BusinessID = userClaims.BusinessID
		req.ProductID = productID
		req.CreatedBy = userClaims.UserID

		movement, err := service.AdjustStock(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, movement)
	}
}

func ListMovements(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		startDate, endDate, err := utils.ParseDateRange(query.Get("start_date"), query.Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}
		productID, ok := queryID(w, r, "product_id")
		if !ok {
			return
		}

		movements, err := service.ListMovements(r.Context(), userClaims.BusinessID, domain.MovementFilters{
			ProductID: productID,
			Type:      domain.MovementType(query.Get("type")),
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, movements)
	}
}

func ListLowStock(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		products, err := service.ListLowStock(r.Context(), userClaims.BusinessID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}
