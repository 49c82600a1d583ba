package models

import "gorm.io/gorm"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type User struct {
	gorm.Model
	Name     string
	Email    string `gorm:"unique"`
	Password string
	Role     string `gorm:"default:student"`
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
