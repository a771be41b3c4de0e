package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/vfg2006/shop-manager-api/internal/config"
	"github.com/vfg2006/shop-manager-api/internal/domain"
	"github.com/vfg2006/shop-manager-api/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordLength = 16
	characters     = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS businesses (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		business_id   BIGINT NOT NULL REFERENCES businesses(id),
		name          TEXT NOT NULL,
		lastname      TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		role_id       INT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             BIGSERIAL PRIMARY KEY,
		business_id    BIGINT NOT NULL REFERENCES businesses(id),
		name           TEXT NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		sku            TEXT NOT NULL DEFAULT '',
		stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		reorder_level  INT NOT NULL DEFAULT 0,
		purchase_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		selling_price  NUMERIC(12,2) NOT NULL DEFAULT 0,
		published      BOOLEAN NOT NULL DEFAULT FALSE,
		deleted        BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at     TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_business ON products (business_id) WHERE NOT deleted`,
	`CREATE TABLE IF NOT EXISTS leads (
		id                        BIGSERIAL PRIMARY KEY,
		business_id               BIGINT NOT NULL REFERENCES businesses(id),
		name                      TEXT NOT NULL DEFAULT '',
		email                     TEXT NOT NULL DEFAULT '',
		phone                     TEXT NOT NULL DEFAULT '',
		phone_normalized          TEXT NOT NULL DEFAULT '',
		loyalty_points            INT NOT NULL DEFAULT 0 CHECK (loyalty_points >= 0),
		last_purchase_at          TIMESTAMPTZ,
		last_purchased_product_id BIGINT REFERENCES products(id),
		status                    TEXT NOT NULL DEFAULT 'active',
		source                    TEXT NOT NULL DEFAULT '',
		created_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_contact ON leads (business_id, lower(email), phone_normalized)`,
	`CREATE TABLE IF NOT EXISTS sale_transactions (
		id            BIGSERIAL PRIMARY KEY,
		business_id   BIGINT NOT NULL REFERENCES businesses(id),
		code          TEXT NOT NULL,
		lead_id       BIGINT REFERENCES leads(id),
		sold_by       INT NOT NULL REFERENCES users(id),
		sold_at       TIMESTAMPTZ NOT NULL,
		total_amount  NUMERIC(12,2) NOT NULL,
		earned_points INT NOT NULL DEFAULT 0,
		notes         TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (business_id, code)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_business_sold_at ON sale_transactions (business_id, sold_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_lead ON sale_transactions (business_id, lead_id, sold_at)`,
	`CREATE TABLE IF NOT EXISTS sale_line_items (
		id           BIGSERIAL PRIMARY KEY,
		sale_id      BIGINT NOT NULL REFERENCES sale_transactions(id) ON DELETE CASCADE,
		product_id   BIGINT NOT NULL REFERENCES products(id),
		product_name TEXT NOT NULL,
		quantity     INT NOT NULL CHECK (quantity > 0),
		unit_price   NUMERIC(12,2) NOT NULL,
		total_price  NUMERIC(12,2) NOT NULL,
		points       INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_movements (
		id              BIGSERIAL PRIMARY KEY,
		business_id     BIGINT NOT NULL REFERENCES businesses(id),
		product_id      BIGINT NOT NULL REFERENCES products(id),
		product_name    TEXT NOT NULL,
		quantity_before INT NOT NULL,
		quantity_after  INT NOT NULL,
		movement_type   TEXT NOT NULL,
		reference_id    TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		created_by      INT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_business_created ON inventory_movements (business_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS daily_sales_summary (
		id                 BIGSERIAL PRIMARY KEY,
		business_id        BIGINT NOT NULL REFERENCES businesses(id),
		date               DATE NOT NULL,
		transactions_count INT NOT NULL DEFAULT 0,
		items_sold         INT NOT NULL DEFAULT 0,
		total_revenue      NUMERIC(14,2) NOT NULL DEFAULT 0,
		points_awarded     INT NOT NULL DEFAULT 0,
		unique_leads       INT NOT NULL DEFAULT 0,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (business_id, date)
	)`,
}

// Variáveis opcionais para o primeiro dono da loja
type ownerSeed struct {
	BusinessName string
	Name         string
	Email        string
	Password     string
}

func seedFromEnv() ownerSeed {
	return ownerSeed{
		BusinessName: os.Getenv("SEED_BUSINESS_NAME"),
		Name:         os.Getenv("SEED_OWNER_NAME"),
		Email:        strings.ToLower(strings.TrimSpace(os.Getenv("SEED_OWNER_EMAIL"))),
		Password:     os.Getenv("SEED_OWNER_PASSWORD"),
	}
}

func generatePassword() (string, error) {
	return gonanoid.Generate(characters, passwordLength)
}

func applySchema(ctx context.Context, tx *sql.Tx) error {
	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "erro ao executar comando %d do schema", i+1)
		}
	}
	return nil
}

func seedOwner(ctx context.Context, tx *sql.Tx, seed ownerSeed) error {
	if seed.Email == "" {
		log.L.Info("SEED_OWNER_EMAIL vazio, nenhum usuário inicial será criado")
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, seed.Email).Scan(&exists); err != nil {
		return errors.Wrap(err, "erro ao verificar usuário inicial")
	}
	if exists {
		log.L.WithField("email", seed.Email).Info("Usuário inicial já existe, nada a fazer")
		return nil
	}

	password := seed.Password
	if password == "" {
		generated, err := generatePassword()
		if err != nil {
			return errors.Wrap(err, "erro ao gerar senha inicial")
		}
		password = generated
		log.L.WithField("password", password).Warn("Senha inicial gerada, altere no primeiro acesso")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "erro ao gerar hash da senha")
	}

	businessName := seed.BusinessName
	if businessName == "" {
		businessName = "Minha Loja"
	}

	var businessID int64
	if err := tx.QueryRowContext(ctx, `INSERT INTO businesses (name) VALUES ($1) RETURNING id`, businessName).Scan(&businessID); err != nil {
		return errors.Wrap(err, "erro ao inserir empresa")
	}

	name := seed.Name
	if name == "" {
		name = "Dono"
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (business_id, name, email, password_hash, active, role_id) VALUES ($1, $2, $3, $4, TRUE, $5)`,
		businessID, name, seed.Email, string(hash), domain.RoleOwner,
	)
	if err != nil {
		return errors.Wrap(err, "erro ao inserir usuário dono")
	}

	log.L.WithFields(log.Fields{
		"business_id": businessID,
		"email":       seed.Email,
	}).Info("Empresa e usuário dono criados")
	return nil
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao carregar configuração")
	}
	log.Setup(cfg.App.LogLevel)

	log.L.Info("Iniciando script de migração...")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao abrir conexão com o banco")
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao iniciar transação")
	}

	if err := applySchema(ctx, tx); err != nil {
		_ = tx.Rollback()
		log.L.WithError(err).Fatal("Migração abortada")
	}

	if err := seedOwner(ctx, tx, seedFromEnv()); err != nil {
		_ = tx.Rollback()
		log.L.WithError(err).Fatal("Migração abortada")
	}

	if err := tx.Commit(); err != nil {
		log.L.WithError(err).Fatal("Erro ao confirmar transação")
	}

	log.L.WithField("duration", time.Since(startTime).String()).Info("Migração concluída com sucesso")
}
