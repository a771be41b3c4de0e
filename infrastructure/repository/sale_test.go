package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/shop-manager-api/internal/domain"
)

// fakeRows devolve pares (id, product_id) como o RETURNING do insert de itens
type fakeRows struct {
	values [][2]int64
	pos    int
	err    error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.pos-1]
	*dest[0].(*int64) = row[0]
	*dest[1].(*int64) = row[1]
	return nil
}

func (r *fakeRows) Err() error {
	return r.err
}

func TestScanItemIDs(t *testing.T) {
	newItems := func() []*domain.SaleLineItem {
		return []*domain.SaleLineItem{{ProductID: 7}, {ProductID: 9}}
	}

	tests := []struct {
		name    string
		rows    *fakeRows
		wantErr bool
		wantIDs []int64
	}{
		{
			name:    "Atribui os ids na ordem dos itens",
			rows:    &fakeRows{values: [][2]int64{{101, 7}, {102, 9}}},
			wantIDs: []int64{101, 102},
		},
		{
			name:    "Menos linhas que itens é erro",
			rows:    &fakeRows{values: [][2]int64{{101, 7}}},
			wantErr: true,
		},
		{
			name:    "Mais linhas que itens é erro",
			rows:    &fakeRows{values: [][2]int64{{101, 7}, {102, 9}, {103, 9}}},
			wantErr: true,
		},
		{
			name:    "Produto fora de ordem é erro",
			rows:    &fakeRows{values: [][2]int64{{102, 9}, {101, 7}}},
			wantErr: true,
		},
		{
			name:    "Erro da iteração é repassado",
			rows:    &fakeRows{values: [][2]int64{{101, 7}, {102, 9}}, err: errors.New("conexão perdida")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := newItems()
			err := scanItemIDs(tt.rows, items)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			for i, id := range tt.wantIDs {
				assert.Equal(t, id, items[i].ID)
			}
		})
	}
}
