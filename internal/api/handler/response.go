package handler

import (
	"context"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/shop-manager-api/internal/usecases/leading"
	"github.com/vfg2006/shop-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/shop-manager-api/internal/usecases/selling"
	"github.com/vfg2006/shop-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/shop-manager-api/pkg/apiErrors"
	"github.com/vfg2006/shop-manager-api/pkg/log"
	"github.com/vfg2006/shop-manager-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Warn("Erro ao codificar resposta")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return false
	}
	return true
}

// claims retorna o usuário autenticado ou escreve 401
func claims(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	userClaims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return userClaims, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Identificador inválido", map[string]string{name: raw})
		return 0, false
	}
	return id, true
}

func queryID(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro inválido", map[string]string{name: raw})
		return nil, false
	}
	return &id, true
}

// handleError converte os erros dos casos de uso no formato padrão da API
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context()).WithError(err)

	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("Tempo limite da requisição excedido")
		apiErrors.WriteError(w, apiErrors.ErrTimeout, "Tempo limite da requisição excedido", nil)
		return
	}

	var saleErr *selling.SaleError
	var leadErr *leading.LeadError
	var stockErr *stocking.StockError
	var authErr *authenticating.AuthError
	var reportErr *reporting.ReportError

	switch {
	case errors.As(err, &saleErr):
		var details any
		if len(saleErr.Violations) > 0 {
			details = map[string]any{"violations": saleErr.Violations}
		}
		writeUsecaseError(w, logger, saleErr.Code, saleErr.Err.Error(), details)
	case errors.As(err, &leadErr):
		var details any
		if leadErr.LeadID != 0 {
			details = map[string]any{"lead_id": leadErr.LeadID}
		}
		writeUsecaseError(w, logger, leadErr.Code, leadErr.Err.Error(), details)
	case errors.As(err, &stockErr):
		var details any
		if stockErr.ProductID != 0 {
			details = map[string]any{"product_id": stockErr.ProductID}
		}
		writeUsecaseError(w, logger, stockErr.Code, stockErr.Err.Error(), details)
	case errors.As(err, &authErr):
		writeUsecaseError(w, logger, authErr.Code, authErr.Error(), nil)
	case errors.As(err, &reportErr):
		writeUsecaseError(w, logger, reportErr.Code, reportErr.Error(), nil)
	default:
		logger.Error("Erro não mapeado")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
	}
}

// writeUsecaseError esconde detalhes de erros internos do cliente
func writeUsecaseError(w http.ResponseWriter, logger log.Logger, code, message string, details any) {
	if apiErrors.StatusFor(code) >= http.StatusInternalServerError {
		logger.Error("Erro ao processar requisição")
		apiErrors.WriteError(w, code, "Erro interno ao processar a requisição", nil)
		return
	}
	apiErrors.WriteError(w, code, message, details)
}
