package user

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(u *User) error
	Update(u *User) error
	FindByID(id uint) (User, error)
	FindByExternalID(externalID string) (*User, error)
	FindRoleByName(name string) (*Role, error)
	List(limit, offset int, search, role, status string) ([]User, int64, error)
	EmailsByRole(roleName string) ([]string, error)
	IDsByRole(roleName string) ([]uint, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(u *User) error {
	return r.db.Create(u).Error
}

func (r *repository) Update(u *User) error {
	return r.db.Save(u).Error
}

func (r *repository) FindByID(id uint) (User, error) {
	var u User
	err := r.db.Preload("Role").First(&u, id).Error
	return u, err
}

func (r *repository) FindByExternalID(externalID string) (*User, error) {
	var u User
	err := r.db.Preload("Role").Where("external_id = ?", externalID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindRoleByName(name string) (*Role, error) {
	var role Role
	err := r.db.Where("role_name = ?", name).First(&role).Error
	return &role, err
}

// List returns a page of users with optional search/role/status filters
func (r *repository) List(limit, offset int, search, role, status string) ([]User, int64, error) {
	var users []User
	var total int64

	query := r.db.Model(&User{}).Preload("Role")

	if search != "" {
		ilike := "%" + search + "%"
		query = query.Where("email ILIKE ? OR full_name ILIKE ?", ilike, ilike)
	}
	if role != "" {
		query = query.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.role_name = ?", role)
	}
	if status != "" {
		query = query.Where("users.status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("users.created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *repository) EmailsByRole(roleName string) ([]string, error) {
	var emails []string
	err := r.db.
		Table("users").
		Select("users.email").
		Joins("JOIN roles ON users.role_id = roles.id").
		Where("roles.role_name = ? AND users.status = ?", roleName, "active").
		Scan(&emails).Error
	return emails, err
}

func (r *repository) IDsByRole(roleName string) ([]uint, error) {
	type row struct{ ID uint }
	var rows []row
	err := r.db.
		Table("users").
		Select("users.id as id").
		Joins("JOIN roles ON users.role_id = roles.id").
		Where("roles.role_name = ? AND users.status = ?", roleName, "active").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// SeedRoles inserts the fixed platform roles if missing
func SeedRoles(db *gorm.DB) error {
	roles := []Role{
		{RoleName: "admin", Description: "Platform administrator"},
		{RoleName: "organizer", Description: "Can create and manage events"},
		{RoleName: "member", Description: "Regular community member"},
	}
	for _, role := range roles {
		var existing Role
		err := db.Where("role_name = ?", role.RoleName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
