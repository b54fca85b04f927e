package warehouse

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopsight/models"
	"shopsight/utils"
)

// ErrArticleNotFound is returned when a requested article id is absent from
// the warehouse. It is the only warehouse condition surfaced to end users.
var ErrArticleNotFound = errors.New("article not found in warehouse")

// Reader exposes the read-only warehouse: catalog search plus per-article
// daily metrics. All reads go against an immutable snapshot, so Reader
// implementations are safe for concurrent use.
type Reader interface {
	FindArticles(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	GetArticle(ctx context.Context, articleID string) (*models.ArticleSummary, error)
	DailyMetrics(ctx context.Context, articleID string, from, to time.Time) ([]models.DailyMetric, error)
}

// PostgresReader implements Reader on top of the article_summary, articles
// and article_daily_metrics tables built by the ingest tooling.
type PostgresReader struct {
	db *pgxpool.Pool
}

func NewPostgresReader(db *pgxpool.Pool) *PostgresReader {
	return &PostgresReader{db: db}
}

// GetArticle fetches the summary row for a single article.
func (r *PostgresReader) GetArticle(ctx context.Context, articleID string) (*models.ArticleSummary, error) {
	query := `
		SELECT
			CAST(article_id AS TEXT),
			product_name,
			COALESCE(product_group_name, index_name, 'Assortment') AS category,
			COALESCE(department_name, 'H&M Originals') AS department,
			avg_price,
			total_units,
			total_revenue,
			first_sale,
			last_sale
		FROM article_summary
		WHERE article_id = $1
	`
	var a models.ArticleSummary
	err := r.db.QueryRow(ctx, query, articleID).Scan(
		&a.ProductID, &a.ProductName, &a.Category, &a.Department,
		&a.AvgPrice, &a.TotalUnits, &a.TotalRevenue, &a.FirstSale, &a.LastSale,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to fetch article %s: %w", articleID, err)
	}
	a.AvgPrice = utils.Round2(a.AvgPrice)
	a.TotalRevenue = utils.Round2(a.TotalRevenue)
	return &a, nil
}

// DailyMetrics returns the daily sales rows for an article, date ascending.
// Zero from/to values leave the corresponding bound open.
func (r *PostgresReader) DailyMetrics(ctx context.Context, articleID string, from, to time.Time) ([]models.DailyMetric, error) {
	query := `
		SELECT
			CAST(article_id AS TEXT),
			transaction_date,
			units,
			gross_revenue,
			unit_price,
			channel,
			region
		FROM article_daily_metrics
		WHERE article_id = $1
	`
	args := []interface{}{articleID}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	query += " ORDER BY transaction_date"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily metrics for %s: %w", articleID, err)
	}
	defer rows.Close()

	metrics := make([]models.DailyMetric, 0)
	for rows.Next() {
		var m models.DailyMetric
		if err := rows.Scan(&m.ProductID, &m.Date, &m.Units, &m.Revenue, &m.UnitPrice, &m.Channel, &m.Region); err != nil {
			return nil, fmt.Errorf("failed to scan daily metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// searchRow is one raw hit before grouping by product name.
type searchRow struct {
	models.SearchResult
	Colour  *string
	Revenue float64
}

// FindArticles searches the catalog by product name or article id. Hits are
// revenue ordered and grouped by product name so colour variants of the same
// product collapse into one result with a colour-aware descriptor, following
// the behavior the dashboard relies on for its lookup box. An empty query
// returns the current top sellers.
func (r *PostgresReader) FindArticles(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = 5
	}

	baseQuery := `
		SELECT CAST(summary.article_id AS TEXT) AS product_id,
		       summary.product_name,
		       COALESCE(summary.department_name, 'H&M') AS brand,
		       COALESCE(summary.product_group_name, summary.index_name, 'Assortment') AS category,
		       COALESCE(summary.product_type_name, summary.product_group_name, summary.index_name, 'Assortment') AS descriptor,
		       articles.colour_group_name AS colour,
		       summary.total_revenue
		FROM article_summary AS summary
		LEFT JOIN articles ON articles.article_id = summary.article_id
	`

	var rows pgx.Rows
	var err error
	if query == "" {
		rows, err = r.db.Query(ctx, baseQuery+" ORDER BY summary.total_revenue DESC LIMIT $1", limit*4)
	} else {
		like := "%" + query + "%"
		rows, err = r.db.Query(ctx, baseQuery+`
			WHERE summary.product_name ILIKE $1 OR CAST(summary.article_id AS TEXT) LIKE $2
			ORDER BY summary.total_revenue DESC
			LIMIT $3
		`, like, like, limit*4)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	var hits []searchRow
	for rows.Next() {
		var h searchRow
		if err := rows.Scan(&h.ProductID, &h.ProductName, &h.Brand, &h.Category, &h.Descriptor, &h.Colour, &h.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groupSearchHits(hits, query, limit), nil
}

// groupSearchHits collapses colour variants sharing a product name into one
// result. The highest-revenue variant represents the group unless the query
// names a variant id directly, in which case that variant wins.
func groupSearchHits(hits []searchRow, query string, limit int) []models.SearchResult {
	type group struct {
		base    searchRow
		colours map[string]bool
	}

	grouped := make(map[string]*group)
	var order []string

	for _, hit := range hits {
		key := strings.ToLower(hit.ProductName)
		entry, ok := grouped[key]
		if !ok {
			entry = &group{base: hit, colours: make(map[string]bool)}
			grouped[key] = entry
			order = append(order, key)
		} else if hit.Revenue > entry.base.Revenue && hit.ProductID != query {
			entry.base = hit
		}
		if hit.Colour != nil && *hit.Colour != "" {
			entry.colours[*hit.Colour] = true
		}
		if query != "" && hit.ProductID == query {
			entry.base = hit
		}
	}

	results := make([]models.SearchResult, 0, limit)
	for _, key := range order {
		entry := grouped[key]
		res := entry.base.SearchResult
		if len(entry.colours) > 0 {
			colours := make([]string, 0, len(entry.colours))
			for c := range entry.colours {
				colours = append(colours, c)
			}
			sort.Strings(colours)
			label := strings.Join(colours[:min(len(colours), 3)], ", ")
			if len(colours) > 3 {
				label += " +"
			}
			res.Descriptor = fmt.Sprintf("%s - Colours: %s", res.Category, label)
		}
		results = append(results, res)
		if len(results) >= limit {
			break
		}
	}
	return results
}
