package user

import (
	"database/sql"
	"errors"
)

const (
	RoleRegular = "Regular"
	RoleAdmin   = "Admin"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrUserAlreadyExists = errors.New("username or email already registered")
)

// User is the identity record. The core never mutates or deletes it.
type User struct {
	ID           string `json:"-"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

// Group is a named collection of member emails. Emails are authoritative
// even when they do not resolve to a registered user.
type Group struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type Repository interface {
	Insert(user User) error
	FindAll() ([]User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	UsernameExists(username string) (bool, error)
	FindAllGroups() ([]Group, error)
	FindGroupByName(name string) (*Group, error)
	// UsernamesByEmails resolves emails to usernames, silently dropping
	// emails with no registered user.
	UsernamesByEmails(emails []string) ([]string, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Insert(user User) error {
	_, err := r.db.Exec(
		`INSERT INTO users (id, username, email, password_hash, role) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
	)
	return err
}

func (r *userRepository) FindAll() ([]User, error) {
	rows, err := r.db.Query(`SELECT username, email, role FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) FindByUsername(username string) (*User, error) {
	return r.findOne(`SELECT id, username, email, password_hash, role FROM users WHERE username = $1`, username)
}

func (r *userRepository) FindByEmail(email string) (*User, error) {
	return r.findOne(`SELECT id, username, email, password_hash, role FROM users WHERE email = $1`, email)
}

func (r *userRepository) findOne(query, arg string) (*User, error) {
	var u User
	err := r.db.QueryRow(query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UsernameExists(username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) FindAllGroups() ([]Group, error) {
	rows, err := r.db.Query(`SELECT name FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		members, err := r.groupMembers(groups[i].Name)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (r *userRepository) FindGroupByName(name string) (*Group, error) {
	var groupName string
	err := r.db.QueryRow(`SELECT name FROM groups WHERE name = $1`, name).Scan(&groupName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}

	members, err := r.groupMembers(groupName)
	if err != nil {
		return nil, err
	}
	return &Group{Name: groupName, Members: members}, nil
}

func (r *userRepository) groupMembers(name string) ([]string, error) {
	rows, err := r.db.Query(`SELECT email FROM group_members WHERE group_name = $1 ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		members = append(members, email)
	}
	return members, rows.Err()
}

func (r *userRepository) UsernamesByEmails(emails []string) ([]string, error) {
	rows, err := r.db.Query(`SELECT username FROM users WHERE email = ANY($1)`, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		usernames = append(usernames, username)
	}
	return usernames, rows.Err()
}
