package postgres

import "github.com/mmynk/pagetally/internal/models"

// Row types mirror the SQLite schema so both backends hold the same data.

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	DisplayName  string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}

func (userRow) TableName() string { return "users" }

type batchRow struct {
	ID             string  `gorm:"primaryKey;size:36"`
	UserID         string  `gorm:"size:36;not null;index"`
	TotalDocuments int     `gorm:"not null"`
	TotalPages     int     `gorm:"not null"`
	TotalCost      float64 `gorm:"not null"`
	PricePerPage   float64 `gorm:"not null"`
	PaymentStatus  string  `gorm:"size:16;not null;default:PENDING"`
	CreatedAt      int64   `gorm:"not null;index;autoCreateTime:false"`
}

func (batchRow) TableName() string { return "document_batches" }

type documentRow struct {
	ID         string  `gorm:"primaryKey;size:36"`
	BatchID    string  `gorm:"size:36;not null;index"`
	Name       string  `gorm:"not null"`
	PageCount  int     `gorm:"not null;check:page_count >= 1"`
	Cost       float64 `gorm:"not null"`
	UploadDate int64   `gorm:"not null"`
	SourceKind string  `gorm:"size:16;not null"`
}

func (documentRow) TableName() string { return "documents" }

type shareRow struct {
	ID          string  `gorm:"primaryKey;size:36"`
	BatchID     string  `gorm:"size:36;not null;index"`
	PersonName  string  `gorm:"size:255;not null"`
	AmountToPay float64 `gorm:"not null"`
	IsPaid      bool    `gorm:"not null;default:false"`
	CreatedAt   int64   `gorm:"not null;autoCreateTime:false"`
}

func (shareRow) TableName() string { return "payment_shares" }

func toUserRow(u *models.User) userRow {
	return userRow{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toBatchRow(b *models.Batch) batchRow {
	return batchRow{
		ID:             b.ID,
		UserID:         b.UserID,
		TotalDocuments: b.TotalDocuments,
		TotalPages:     b.TotalPages,
		TotalCost:      b.TotalCost,
		PricePerPage:   b.PricePerPage,
		PaymentStatus:  string(b.PaymentStatus),
		CreatedAt:      b.CreatedAt,
	}
}

func (r batchRow) toModel() *models.Batch {
	return &models.Batch{
		ID:             r.ID,
		UserID:         r.UserID,
		TotalDocuments: r.TotalDocuments,
		TotalPages:     r.TotalPages,
		TotalCost:      r.TotalCost,
		PricePerPage:   r.PricePerPage,
		PaymentStatus:  models.PaymentStatus(r.PaymentStatus),
		CreatedAt:      r.CreatedAt,
	}
}

func toDocumentRow(d models.Document) documentRow {
	return documentRow{
		ID:         d.ID,
		BatchID:    d.BatchID,
		Name:       d.Name,
		PageCount:  d.PageCount,
		Cost:       d.Cost,
		UploadDate: d.UploadDate,
		SourceKind: string(d.Source),
	}
}

func (r documentRow) toModel() models.Document {
	return models.Document{
		ID:         r.ID,
		BatchID:    r.BatchID,
		Name:       r.Name,
		PageCount:  r.PageCount,
		Cost:       r.Cost,
		UploadDate: r.UploadDate,
		Source:     models.SourceKind(r.SourceKind),
	}
}

func toShareRow(s models.PaymentShare) shareRow {
	return shareRow{
		ID:          s.ID,
		BatchID:     s.BatchID,
		PersonName:  s.PersonName,
		AmountToPay: s.AmountToPay,
		IsPaid:      s.IsPaid,
		CreatedAt:   s.CreatedAt,
	}
}

func (r shareRow) toModel() models.PaymentShare {
	return models.PaymentShare{
		ID:          r.ID,
		BatchID:     r.BatchID,
		PersonName:  r.PersonName,
		AmountToPay: r.AmountToPay,
		IsPaid:      r.IsPaid,
		CreatedAt:   r.CreatedAt,
	}
}
