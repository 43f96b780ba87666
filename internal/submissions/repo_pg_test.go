package submissions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateEncodesDocumentURLs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	sub := Submission{
		ID:           "sub-1",
		BusinessName: "Acme LLC",
		OwnerName:    "Pat Acme",
		Email:        "a@b.com",
		Phone:        "+15551234567",
		Location:     "Springfield",
		BusinessType: "LLC",
		PreparerName: "Chris Books",
		DocumentURLs: []string{"https://files.test/a.pdf", "https://files.test/b.pdf"},
		CreatedAt:    time.Now().UTC(),
	}

	encoded, _ := json.Marshal(sub.DocumentURLs)
	mock.ExpectExec("INSERT INTO tax_submissions").
		WithArgs(
			sub.ID,
			sub.BusinessName,
			sub.OwnerName,
			sub.Email,
			sub.Phone,
			sub.Location,
			sub.BusinessType,
			sub.PreparerName,
			encoded,
			sub.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), sub); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListAllDecodesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	columns := []string{"id", "business_name", "owner_name", "email", "phone", "location", "business_type", "preparer_name", "document_urls", "created_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("sub-1", "Acme LLC", "Pat Acme", "a@b.com", "+15551234567", "Springfield", "LLC", "Chris Books", []byte(`["https://files.test/a.pdf"]`), now).
		AddRow("sub-2", "Beta Inc", "Sam Beta", "s@beta.io", "1234567890", "Shelbyville", "Corp", "Chris Books", nil, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM tax_submissions").WillReturnRows(rows)

	subs, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(subs))
	}
	if len(subs[0].DocumentURLs) != 1 || subs[0].DocumentURLs[0] != "https://files.test/a.pdf" {
		t.Fatalf("row 1 urls = %v", subs[0].DocumentURLs)
	}
	if subs[1].DocumentURLs != nil {
		t.Fatalf("row 2 urls should be nil, got %v", subs[1].DocumentURLs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
