package ticketsgorm

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("ticket not found")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// Filter narrows List results; zero values mean no filtering.
type Filter struct {
	Status string
	Maker  string
}

type Page struct {
	Page int
	Size int
}

func (r *Repo) Create(ctx context.Context, t *Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repo) Get(ctx context.Context, id uint) (*Ticket, error) {
	var t Ticket
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) List(ctx context.Context, f Filter, p Page) ([]*Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&Ticket{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Maker != "" {
		q = q.Where("maker = ?", f.Maker)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if p.Size <= 0 {
		p.Size = 20
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	var out []*Ticket
	err := q.Order("id DESC").Offset((p.Page - 1) * p.Size).Limit(p.Size).Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll returns every ticket, oldest first; used by report rendering.
func (r *Repo) ListAll(ctx context.Context) ([]*Ticket, error) {
	var out []*Ticket
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, t *Ticket) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// AppendAudit writes an audit row; details is marshalled to a JSON column.
func (r *Repo) AppendAudit(ctx context.Context, action, entityID, actor string, details map[string]any) error {
	var payload datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(raw)
	}
	log := AuditLog{
		Action:     action,
		EntityType: "TICKET",
		EntityID:   entityID,
		Actor:      actor,
		Details:    payload,
	}
	return r.db.WithContext(ctx).Create(&log).Error
}
