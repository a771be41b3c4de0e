package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-manager-api/infrastructure/repository"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

type productRepository struct {
	session
}

func (r *productRepository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	err := r.run("products.create", func(st *state) error {
		st.productSeq++
		now := r.store.now()
		product.ID = st.productSeq
		product.CreatedAt = now
		product.UpdatedAt = now
		st.products[product.ID] = copyProduct(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) Update(_ context.Context, product *domain.Product) error {
	return r.run("products.update", func(st *state) error {
		current, ok := st.products[product.ID]
		if !ok || current.BusinessID != product.BusinessID || current.Deleted {
			return repository.ErrNotFound
		}
		updated := copyProduct(product)
		updated.StockQuantity = current.StockQuantity
		updated.Deleted = current.Deleted
		updated.DeletedAt = current.DeletedAt
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = r.store.now()
		st.products[product.ID] = updated
		return nil
	})
}

func (r *productRepository) GetByID(_ context.Context, businessID, productID int64) (*domain.Product, error) {
	var out *domain.Product
	err := r.run("products.get", func(st *state) error {
		if p, ok := st.products[productID]; ok && p.BusinessID == businessID {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *productRepository) GetForUpdate(_ context.Context, businessID int64, productIDs []int64) (map[int64]*domain.Product, error) {
	out := make(map[int64]*domain.Product, len(productIDs))
	err := r.run("products.get_for_update", func(st *state) error {
		for _, id := range productIDs {
			if p, ok := st.products[id]; ok && p.BusinessID == businessID {
				out[id] = copyProduct(p)
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepository) List(_ context.Context, businessID int64, filters domain.ProductFilters) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0)
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	err := r.run("products.list", func(st *state) error {
		for _, p := range st.products {
			if p.BusinessID != businessID || p.Deleted {
				continue
			}
			if filters.Category != "" && p.Category != filters.Category {
				continue
			}
			if filters.OnlyPublished && !p.Published {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
				continue
			}
			out = append(out, copyProduct(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, err
}

func (r *productRepository) ListLowStock(_ context.Context, businessID int64) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0)
	err := r.run("products.list_low_stock", func(st *state) error {
		for _, p := range st.products {
			if p.Deleted || !p.IsLowStock() {
				continue
			}
			if businessID != 0 && p.BusinessID != businessID {
				continue
			}
			out = append(out, copyProduct(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].BusinessID != out[j].BusinessID {
			return out[i].BusinessID < out[j].BusinessID
		}
		if out[i].StockQuantity != out[j].StockQuantity {
			return out[i].StockQuantity < out[j].StockQuantity
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *productRepository) AdjustStock(_ context.Context, businessID, productID int64, delta int) (int, int, error) {
	var before, after int
	err := r.run("products.adjust_stock", func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.BusinessID != businessID || p.Deleted || p.StockQuantity+delta < 0 {
			return repository.ErrStockConflict
		}
		before = p.StockQuantity
		p.StockQuantity += delta
		p.UpdatedAt = r.store.now()
		after = p.StockQuantity
		return nil
	})
	return before, after, err
}

func (r *productRepository) SoftDelete(_ context.Context, businessID, productID int64) error {
	return r.run("products.soft_delete", func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.BusinessID != businessID || p.Deleted {
			return repository.ErrNotFound
		}
		now := r.store.now()
		p.Deleted = true
		p.Published = false
		p.DeletedAt = &now
		p.UpdatedAt = now
		return nil
	})
}

type leadRepository struct {
	session
}

func (r *leadRepository) Create(_ context.Context, lead *domain.Lead) (*domain.Lead, error) {
	err := r.run("leads.create", func(st *state) error {
		st.leadSeq++
		now := r.store.now()
		lead.ID = st.leadSeq
		lead.CreatedAt = now
		lead.UpdatedAt = now
		st.leads[lead.ID] = copyLead(lead)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *leadRepository) Update(_ context.Context, lead *domain.Lead) error {
	return r.run("leads.update", func(st *state) error {
		current, ok := st.leads[lead.ID]
		if !ok || current.BusinessID != lead.BusinessID {
			return repository.ErrNotFound
		}
		updated := copyLead(lead)
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = r.store.now()
		st.leads[lead.ID] = updated
		return nil
	})
}

func (r *leadRepository) GetByID(_ context.Context, businessID, leadID int64) (*domain.Lead, error) {
	var out *domain.Lead
	err := r.run("leads.get", func(st *state) error {
		if l, ok := st.leads[leadID]; ok && l.BusinessID == businessID {
			out = copyLead(l)
		}
		return nil
	})
	return out, err
}

func (r *leadRepository) GetForUpdate(ctx context.Context, businessID, leadID int64) (*domain.Lead, error) {
	return r.GetByID(ctx, businessID, leadID)
}

// ListMatchCandidates devolve todos os leads ativos da empresa; a classificação fica com o matcher
func (r *leadRepository) ListMatchCandidates(_ context.Context, businessID int64, _ domain.LeadContact) ([]*domain.Lead, error) {
	out := make([]*domain.Lead, 0)
	err := r.run("leads.list_match_candidates", func(st *state) error {
		for _, l := range st.leads {
			if l.BusinessID == businessID && !l.IsDeleted() {
				out = append(out, copyLead(l))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *leadRepository) List(_ context.Context, businessID int64, filters domain.LeadFilters) ([]*domain.Lead, error) {
	out := make([]*domain.Lead, 0)
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	err := r.run("leads.list", func(st *state) error {
		for _, l := range st.leads {
			if l.BusinessID != businessID {
				continue
			}
			if filters.Status != "" && l.Status != filters.Status {
				continue
			}
			if filters.Status == "" && l.IsDeleted() {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(l.Name), search) &&
				!strings.Contains(strings.ToLower(l.Email), search) && !strings.Contains(l.Phone, search) {
				continue
			}
			out = append(out, copyLead(l))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, err
}

type saleRepository struct {
	session
}

func (r *saleRepository) Create(_ context.Context, sale *domain.SaleTransaction) (*domain.SaleTransaction, error) {
	var out *domain.SaleTransaction
	err := r.run("sales.create", func(st *state) error {
		out = insertSale(st, sale, r.store.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func insertSale(st *state, sale *domain.SaleTransaction, now time.Time) *domain.SaleTransaction {
	st.saleSeq++
	sale.ID = st.saleSeq
	sale.CreatedAt = now
	if sale.SoldAt.IsZero() {
		sale.SoldAt = now
	}
	for _, item := range sale.Items {
		st.itemSeq++
		item.ID = st.itemSeq
		item.SaleID = sale.ID
	}
	st.sales[sale.ID] = copySale(sale)
	return sale
}

func (r *saleRepository) GetByID(_ context.Context, businessID, saleID int64) (*domain.SaleTransaction, error) {
	var out *domain.SaleTransaction
	err := r.run("sales.get", func(st *state) error {
		if s, ok := st.sales[saleID]; ok && s.BusinessID == businessID {
			out = copySale(s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepository) List(_ context.Context, businessID int64, filters domain.SaleFilters) ([]*domain.SaleTransaction, error) {
	out := make([]*domain.SaleTransaction, 0)
	err := r.run("sales.list", func(st *state) error {
		for _, s := range st.sales {
			if s.BusinessID != businessID {
				continue
			}
			if filters.StartDate != nil && s.SoldAt.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && !s.SoldAt.Before(*filters.EndDate) {
				continue
			}
			if filters.LeadID != nil && (s.LeadID == nil || *s.LeadID != *filters.LeadID) {
				continue
			}
			sale := copySale(s)
			sale.Items = nil
			out = append(out, sale)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SoldAt.Equal(out[j].SoldAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SoldAt.After(out[j].SoldAt)
	})
	return out, err
}

func (r *saleRepository) ListLeadPurchases(_ context.Context, businessID, leadID int64, since time.Time) ([]domain.PurchaseRecord, error) {
	out := make([]domain.PurchaseRecord, 0)
	err := r.run("sales.list_lead_purchases", func(st *state) error {
		for _, s := range st.sales {
			if s.BusinessID != businessID || s.LeadID == nil || *s.LeadID != leadID || s.SoldAt.Before(since) {
				continue
			}
			for _, item := range s.Items {
				out = append(out, domain.PurchaseRecord{ProductID: item.ProductID, PurchasedAt: s.SoldAt})
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	return out, err
}

func (r *saleRepository) SummarizeByDay(_ context.Context, start, end time.Time, loc *time.Location) ([]*domain.DailySalesSummary, error) {
	if loc == nil {
		loc = time.UTC
	}

	type key struct {
		business int64
		day      string
	}
	summaries := make(map[key]*domain.DailySalesSummary)
	leads := make(map[key]map[int64]struct{})

	err := r.run("sales.summarize_by_day", func(st *state) error {
		for _, s := range st.sales {
			if s.SoldAt.Before(start) || !s.SoldAt.Before(end) {
				continue
			}
			day := s.SoldAt.In(loc).Format(time.DateOnly)
			k := key{business: s.BusinessID, day: day}
			summary, ok := summaries[k]
			if !ok {
				date, _ := time.Parse(time.DateOnly, day)
				summary = &domain.DailySalesSummary{BusinessID: s.BusinessID, Date: date, TotalRevenue: decimal.Zero}
				summaries[k] = summary
				leads[k] = make(map[int64]struct{})
			}
			summary.TransactionsCount++
			for _, item := range s.Items {
				summary.ItemsSold += item.Quantity
				summary.TotalRevenue = summary.TotalRevenue.Add(item.TotalPrice)
				summary.PointsAwarded += item.Points
			}
			if s.LeadID != nil {
				leads[k][*s.LeadID] = struct{}{}
			}
		}
		return nil
	})

	out := make([]*domain.DailySalesSummary, 0, len(summaries))
	for k, summary := range summaries {
		summary.UniqueLeads = len(leads[k])
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].BusinessID < out[j].BusinessID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, err
}

type movementRepository struct {
	session
}

func (r *movementRepository) Create(_ context.Context, movement *domain.InventoryMovement) (*domain.InventoryMovement, error) {
	err := r.run("movements.create", func(st *state) error {
		st.movementSeq++
		movement.ID = st.movementSeq
		movement.CreatedAt = r.store.now()
		st.movements = append(st.movements, copyMovement(movement))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *movementRepository) List(_ context.Context, businessID int64, filters domain.MovementFilters) ([]*domain.InventoryMovement, error) {
	out := make([]*domain.InventoryMovement, 0)
	err := r.run("movements.list", func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.BusinessID != businessID {
				continue
			}
			if filters.ProductID != nil && m.ProductID != *filters.ProductID {
				continue
			}
			if filters.Type != "" && m.Type != filters.Type {
				continue
			}
			if filters.StartDate != nil && m.CreatedAt.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && !m.CreatedAt.Before(*filters.EndDate) {
				continue
			}
			out = append(out, copyMovement(m))
		}
		return nil
	})
	return out, err
}
