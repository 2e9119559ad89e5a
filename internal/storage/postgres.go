package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creatorscook/insight-core/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool           *pgxpool.Pool
	defaultCredits int
}

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string, defaultCredits int) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool, defaultCredits: defaultCredits}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return store, nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			url TEXT NOT NULL,
			platform TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			brand_rules JSONB,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_user ON products (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_status ON products (status)`,
		`CREATE TABLE IF NOT EXISTS insights (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			theme TEXT NOT NULL,
			sentiment DOUBLE PRECISION NOT NULL,
			mentions INTEGER NOT NULL,
			example_quotes JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_product ON insights (user_id, product_id, kind)`,
		`CREATE TABLE IF NOT EXISTS packs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			angle_name TEXT NOT NULL,
			core_angle TEXT NOT NULL,
			hook_options JSONB NOT NULL,
			full_script TEXT NOT NULL,
			sentiment_score DOUBLE PRECISION NOT NULL,
			virality_score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_packs_product ON packs (user_id, product_id)`,
		`CREATE TABLE IF NOT EXISTS scripts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			content TEXT NOT NULL,
			compliance_flags JSONB NOT NULL,
			compliance_score DOUBLE PRECISION NOT NULL,
			risk_level TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS credits (
			user_id TEXT PRIMARY KEY,
			balance INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	logrus.Debug("Database schema ensured")
	return nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	rules, err := marshalJSONB(p.BrandRules)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO products (id, user_id, url, platform, name, description, status, error_message, brand_rules, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.UserID, p.URL, p.Platform, p.Name, p.Description, p.Status, p.ErrorMessage, rules, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, userID, productID string) (*models.Product, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, url, platform, name, description, status, error_message, brand_rules, created_at, updated_at
		 FROM products WHERE user_id = $1 AND id = $2`,
		userID, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListProductsByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, url, platform, name, description, status, error_message, brand_rules, created_at, updated_at
		 FROM products WHERE status = $1 ORDER BY updated_at`,
		status)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var rules []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.URL, &p.Platform, &p.Name, &p.Description,
		&p.Status, &p.ErrorMessage, &rules, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		var br models.BrandRuleSet
		if err := json.Unmarshal(rules, &br); err == nil {
			p.BrandRules = &br
		}
	}
	return &p, nil
}

func (s *PostgresStore) UpdateProductStatus(ctx context.Context, userID, productID string, status models.ProductStatus, errorMessage string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET status = $1, error_message = $2, updated_at = $3 WHERE user_id = $4 AND id = $5`,
		status, errorMessage, time.Now().UTC(), userID, productID)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateProductData(ctx context.Context, userID, productID, name, description string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET name = $1, description = $2, updated_at = $3 WHERE user_id = $4 AND id = $5`,
		name, description, time.Now().UTC(), userID, productID)
	if err != nil {
		return fmt.Errorf("failed to update product data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateBrandRules(ctx context.Context, userID, productID string, rules *models.BrandRuleSet) error {
	data, err := marshalJSONB(rules)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET brand_rules = $1, updated_at = $2 WHERE user_id = $3 AND id = $4`,
		data, time.Now().UTC(), userID, productID)
	if err != nil {
		return fmt.Errorf("failed to update brand rules: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ReplaceInsights(ctx context.Context, userID, productID string, insights models.AggregatedInsights) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM insights WHERE user_id = $1 AND product_id = $2`, userID, productID); err != nil {
		return fmt.Errorf("failed to clear prior insights: %w", err)
	}

	now := time.Now().UTC()
	insert := func(kind string, list []models.ThemeInsight) error {
		for _, in := range list {
			quotes, err := json.Marshal(in.ExampleQuotes)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO insights (id, user_id, product_id, kind, theme, sentiment, mentions, example_quotes, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				uuid.NewString(), userID, productID, kind, in.Theme, in.Sentiment, in.Mentions, quotes, now); err != nil {
				return fmt.Errorf("failed to insert insight: %w", err)
			}
		}
		return nil
	}

	if err := insert(KindPainPoint, insights.PainPoints); err != nil {
		return err
	}
	if err := insert(KindDelightFactor, insights.DelightFactors); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetInsightsByKind(ctx context.Context, userID, productID, kind string) ([]models.ThemeInsight, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT theme, sentiment, mentions, example_quotes
		 FROM insights WHERE user_id = $1 AND product_id = $2 AND kind = $3
		 ORDER BY mentions DESC`,
		userID, productID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	var out []models.ThemeInsight
	for rows.Next() {
		var in models.ThemeInsight
		var quotes []byte
		if err := rows.Scan(&in.Theme, &in.Sentiment, &in.Mentions, &quotes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(quotes, &in.ExampleQuotes); err != nil {
			return nil, fmt.Errorf("failed to decode example quotes: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ReplacePacks(ctx context.Context, userID, productID string, packs []models.ViralityPack) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM packs WHERE user_id = $1 AND product_id = $2`, userID, productID); err != nil {
		return fmt.Errorf("failed to clear prior packs: %w", err)
	}

	now := time.Now().UTC()
	for _, pack := range packs {
		id := pack.ID
		if id == "" {
			id = uuid.NewString()
		}
		hooks, err := json.Marshal(pack.HookOptions)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO packs (id, user_id, product_id, angle_name, core_angle, hook_options, full_script, sentiment_score, virality_score, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, userID, productID, pack.AngleName, pack.CoreAngle, hooks, pack.FullScript,
			pack.SentimentScore, pack.ViralityScore, now); err != nil {
			return fmt.Errorf("failed to insert pack: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) ListPacks(ctx context.Context, userID, productID string) ([]models.ViralityPack, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, product_id, angle_name, core_angle, hook_options, full_script, sentiment_score, virality_score
		 FROM packs WHERE user_id = $1 AND product_id = $2 ORDER BY virality_score DESC`,
		userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query packs: %w", err)
	}
	defer rows.Close()

	var out []models.ViralityPack
	for rows.Next() {
		var pack models.ViralityPack
		var hooks []byte
		if err := rows.Scan(&pack.ID, &pack.ProductID, &pack.AngleName, &pack.CoreAngle, &hooks,
			&pack.FullScript, &pack.SentimentScore, &pack.ViralityScore); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(hooks, &pack.HookOptions); err != nil {
			return nil, fmt.Errorf("failed to decode hook options: %w", err)
		}
		out = append(out, pack)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveScript(ctx context.Context, script *models.Script) error {
	if script.ID == "" {
		script.ID = uuid.NewString()
		script.CreatedAt = time.Now().UTC()
	}
	script.UpdatedAt = time.Now().UTC()

	flags, err := json.Marshal(script.ComplianceFlags)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scripts (id, user_id, product_id, content, compliance_flags, compliance_score, risk_level, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			compliance_flags = EXCLUDED.compliance_flags,
			compliance_score = EXCLUDED.compliance_score,
			risk_level = EXCLUDED.risk_level,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		 WHERE scripts.user_id = EXCLUDED.user_id`,
		script.ID, script.UserID, script.ProductID, script.Content, flags,
		script.ComplianceScore, script.RiskLevel, script.Status, script.CreatedAt, script.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save script: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetScript(ctx context.Context, userID, scriptID string) (*models.Script, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, product_id, content, compliance_flags, compliance_score, risk_level, status, created_at, updated_at
		 FROM scripts WHERE user_id = $1 AND id = $2`,
		userID, scriptID)

	var script models.Script
	var flags []byte
	err := row.Scan(&script.ID, &script.UserID, &script.ProductID, &script.Content, &flags,
		&script.ComplianceScore, &script.RiskLevel, &script.Status, &script.CreatedAt, &script.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	if err := json.Unmarshal(flags, &script.ComplianceFlags); err != nil {
		return nil, fmt.Errorf("failed to decode compliance flags: %w", err)
	}
	return &script, nil
}

// ensureLedger seeds a user's credit row on first contact.
func (s *PostgresStore) ensureLedger(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO credits (user_id, balance) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, s.defaultCredits)
	return err
}

func (s *PostgresStore) HasCredits(ctx context.Context, userID string) (bool, error) {
	if err := s.ensureLedger(ctx, userID); err != nil {
		return false, fmt.Errorf("failed to seed credit ledger: %w", err)
	}

	var balance int
	if err := s.pool.QueryRow(ctx, `SELECT balance FROM credits WHERE user_id = $1`, userID).Scan(&balance); err != nil {
		return false, fmt.Errorf("failed to read credit balance: %w", err)
	}
	return balance > 0, nil
}

func (s *PostgresStore) ConsumeCredit(ctx context.Context, userID string) (bool, error) {
	if err := s.ensureLedger(ctx, userID); err != nil {
		return false, fmt.Errorf("failed to seed credit ledger: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE credits SET balance = balance - 1 WHERE user_id = $1 AND balance > 0`,
		userID)
	if err != nil {
		return false, fmt.Errorf("failed to consume credit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func marshalJSONB(rules *models.BrandRuleSet) ([]byte, error) {
	if rules == nil {
		return nil, nil
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal brand rules: %w", err)
	}
	return data, nil
}
