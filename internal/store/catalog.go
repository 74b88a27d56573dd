// Package store provides a SQLite-backed catalog of planning templates.
// Only template documents are stored; ledger state is never persisted.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/template"

	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidName      = errors.New("invalid template name")
)

// Catalog provides SQLite-backed template storage.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog database at the given path.
func Open(dbPath string) (*Catalog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating catalog dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening catalog db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Entry summarizes a stored template.
type Entry struct {
	Name        string
	Format      template.Format
	GroupCount  int
	ItemCount   int
	BudgetLimit *decimal.Decimal
	Total       decimal.Decimal
	ImportedAt  time.Time
}

// GroupRow is the stored summary of one template group.
type GroupRow struct {
	Position  int
	ID        string
	Name      string
	Keyed     bool
	ItemCount int
	Subtotal  decimal.Decimal
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Save validates source and stores it under name, replacing any template
// already stored there.
func (c *Catalog) Save(name string, f template.Format, source []byte) (Entry, error) {
	if err := checkName(name); err != nil {
		return Entry{}, err
	}
	doc, err := template.Parse(source, f)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Name: name, Format: f, GroupCount: len(doc.Groups), ImportedAt: time.Now().UTC()}
	if lim, ok := doc.Limit(); ok {
		e.BudgetLimit = &lim
	}
	var limitText sql.NullString
	if e.BudgetLimit != nil {
		limitText = sql.NullString{String: e.BudgetLimit.String(), Valid: true}
	}

	groups := doc.ModelGroups()
	for _, g := range groups {
		e.ItemCount += g.Items.Len()
		e.Total = e.Total.Add(g.Subtotal())
	}

	tx, err := c.db.Begin()
	if err != nil {
		return Entry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// Replace explicitly so the cascade clears the old group rows.
	if _, err := tx.Exec("DELETE FROM templates WHERE name = ?", name); err != nil {
		return Entry{}, err
	}
	_, err = tx.Exec(`INSERT INTO templates
		(name, format, source, group_count, item_count, budget_limit, total, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, string(f), source, e.GroupCount, e.ItemCount, limitText, e.Total.String(),
		e.ImportedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("saving template: %w", err)
	}

	for i, g := range groups {
		keyed := 0
		if !g.Items.Ordered() {
			keyed = 1
		}
		_, err = tx.Exec(`INSERT INTO template_groups
			(template_name, position, group_id, group_name, keyed, item_count, subtotal)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			name, i, g.ID, g.Name, keyed, g.Items.Len(), g.Subtotal().String(),
		)
		if err != nil {
			return Entry{}, fmt.Errorf("saving template group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Source returns the stored document text and its format.
func (c *Catalog) Source(name string) ([]byte, template.Format, error) {
	var (
		src    []byte
		format string
	)
	err := c.db.QueryRow("SELECT source, format FROM templates WHERE name = ?", name).Scan(&src, &format)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	if err != nil {
		return nil, "", err
	}
	return src, template.Format(format), nil
}

// Load parses a stored template.
func (c *Catalog) Load(name string) (*template.Document, error) {
	src, f, err := c.Source(name)
	if err != nil {
		return nil, err
	}
	doc, err := template.Parse(src, f)
	if err != nil {
		return nil, fmt.Errorf("stored template %q: %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return doc, nil
}

// List returns every stored template, newest first.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query(`SELECT name, format, group_count, item_count, budget_limit, total, imported_at
		FROM templates ORDER BY imported_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []Entry
	for rows.Next() {
		var (
			e        Entry
			format   string
			limit    sql.NullString
			total    string
			imported string
		)
		if err := rows.Scan(&e.Name, &format, &e.GroupCount, &e.ItemCount, &limit, &total, &imported); err != nil {
			return nil, err
		}
		e.Format = template.Format(format)
		if limit.Valid {
			d, err := decimal.NewFromString(limit.String)
			if err == nil {
				e.BudgetLimit = &d
			}
		}
		e.Total, _ = decimal.NewFromString(total)
		e.ImportedAt, _ = time.Parse(time.RFC3339, imported)
		result = append(result, e)
	}
	return result, rows.Err()
}

// Groups returns the stored group summaries of a template in order.
func (c *Catalog) Groups(name string) ([]GroupRow, error) {
	rows, err := c.db.Query(`SELECT position, group_id, group_name, keyed, item_count, subtotal
		FROM template_groups WHERE template_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []GroupRow
	for rows.Next() {
		var (
			g     GroupRow
			keyed int
			sub   string
		)
		if err := rows.Scan(&g.Position, &g.ID, &g.Name, &keyed, &g.ItemCount, &sub); err != nil {
			return nil, err
		}
		g.Keyed = keyed != 0
		g.Subtotal, _ = decimal.NewFromString(sub)
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		if _, _, err := c.Source(name); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Delete removes a template.
func (c *Catalog) Delete(name string) error {
	res, err := c.db.Exec("DELETE FROM templates WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return nil
}

// Count returns the number of stored templates.
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&n)
	return n, err
}
