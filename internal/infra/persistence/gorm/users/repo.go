package usersgorm

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrBadCredentials = errors.New("bad credentials")
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// Verify checks username/password against the stored bcrypt hash.
func (r *Repo) Verify(ctx context.Context, username, password string) (*UserRecord, error) {
	var u UserRecord
	err := r.db.WithContext(ctx).Where("username = ? AND active = ?", username, true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &u, nil
}

func (r *Repo) Get(ctx context.Context, username string) (*UserRecord, error) {
	var u UserRecord
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListAll returns every user, oldest first; used by the users report.
func (r *Repo) ListAll(ctx context.Context) ([]*UserRecord, error) {
	var out []*UserRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListUserRoles resolves the role names assigned to a user.
func (r *Repo) ListUserRoles(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&UserRoleRecord{}).
		Select("roles.name").
		Joins("JOIN role_records roles ON roles.id = user_role_records.role_id").
		Where("user_role_records.user_id = ?", userID).
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// SeedUser is one bootstrap account with plaintext password (hashed on insert).
type SeedUser struct {
	Username string
	Password string
	Roles    []string
}

// Seed creates missing roles and users. Existing usernames are left untouched,
// so it is safe to run on every start in dev setups.
func (r *Repo) Seed(ctx context.Context, users []SeedUser) error {
	db := r.db.WithContext(ctx)
	roleIDs := map[string]uint{}
	for _, su := range users {
		for _, role := range su.Roles {
			if _, ok := roleIDs[role]; ok {
				continue
			}
			var rec RoleRecord
			err := db.Where("name = ?", role).First(&rec).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				rec = RoleRecord{Name: role}
				if err := db.Create(&rec).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			roleIDs[role] = rec.ID
		}
	}
	for _, su := range users {
		var existing UserRecord
		err := db.Where("username = ?", su.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u := UserRecord{Username: su.Username, PasswordHash: string(hash), Active: true}
		if err := db.Create(&u).Error; err != nil {
			return err
		}
		for _, role := range su.Roles {
			link := UserRoleRecord{UserID: u.ID, RoleID: roleIDs[role]}
			if err := db.Create(&link).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
