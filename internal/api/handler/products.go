package handler

import (
	"net/http"

	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/stocking"
)

type PublishRequest struct {
	Published bool `json:"published"`
}

func ListProducts(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		products, err := service.ListProducts(r.Context(), userClaims.BusinessID, domain.ProductFilters{
			Category:      query.Get("category"),
			Search:        query.Get("search"),
			OnlyPublished: query.Get("published") == "true",
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}

func GetProduct(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		product, err := service.GetProduct(r.Context(), userClaims.BusinessID, productID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

func CreateProduct(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}

		var req domain.CreateProductRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.BusinessID = userClaims.BusinessID
		req.CreatedBy = userClaims.UserID

		product, err := service.CreateProduct(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, product)
	}
}

func UpdateProduct(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req domain.UpdateProductRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.ID = productID
		req.BusinessID = userClaims.BusinessID

		product, err := service.UpdateProduct(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

func DeleteProduct(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := service.DeleteProduct(r.Context(), userClaims.BusinessID, productID); err != nil {
			handleError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func PublishProduct(service stocking.Stocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := claims(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req PublishRequest
		if !decodeBody(w, r, &req) {
			return
		}

		product, err := service.SetPublished(r.Context(), userClaims.BusinessID, productID, req.Published)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}
