package mockapi

import (
	"fmt"
	"os"
	"strings"

	"github.com/jrsteele09/go-auth-frontend/sessions"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// User is a directory entry. Only the bcrypt hash of the password is kept.
type User struct {
	ID           int64  `yaml:"id"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	Avatar       string `yaml:"avatar"`
	PasswordHash string `yaml:"passwordHash"`
}

func (u User) Profile() sessions.UserProfile {
	return sessions.UserProfile{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// Directory is a read-only set of users keyed by lower-cased email.
type Directory struct {
	users map[string]User
}

type directoryFile struct {
	Users []User `yaml:"users"`
}

func NewDirectory(users ...User) *Directory {
	d := &Directory{users: make(map[string]User, len(users))}
	for _, u := range users {
		d.users[strings.ToLower(u.Email)] = u
	}
	return d
}

// LoadDirectory reads a YAML file of the form
//
//	users:
//	  - id: 1
//	    name: Zhang San
//	    email: zs@example.com
//	    passwordHash: $2a$10$...
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[LoadDirectory] read %s: %w", path, err)
	}
	var f directoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("[LoadDirectory] parse %s: %w", path, err)
	}
	for i, u := range f.Users {
		if u.Email == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("[LoadDirectory] user %d: email and passwordHash are required", i)
		}
	}
	return NewDirectory(f.Users...), nil
}

func (d *Directory) Len() int {
	return len(d.users)
}

// Authenticate returns the user when the password matches the stored hash.
func (d *Directory) Authenticate(email, password string) (User, bool) {
	u, ok := d.users[strings.ToLower(email)]
	if !ok || !CheckPasswordHash(password, u.PasswordHash) {
		return User{}, false
	}
	return u, true
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
