package user

import (
	"errors"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mzawadzki/WalletManager/internal/auth"
)

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrMissingFields      = errors.New("not enough parameters")
)

type Service interface {
	Register(username, email, password, role string) (*User, error)
	GetUsers() ([]User, error)
	GetUserByUsername(username string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	Exists(username string) (bool, error)
	GetGroups() ([]Group, error)
	GetGroup(name string) (*Group, error)
	ResolveMembers(groupName string) ([]string, error)
	IsMember(groupName, email string) (bool, error)
	// AccountByEmail satisfies auth.AccountSource for the login flow.
	AccountByEmail(email string) (*auth.Account, error)
}

type service struct {
	repo Repository
}

func NewUserService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(username, email, password, role string) (*User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}

	if _, err := s.repo.FindByUsername(username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Insert(newUser); err != nil {
		return nil, err
	}
	return &newUser, nil
}

func (s *service) GetUsers() ([]User, error) {
	users, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	if users == nil {
		return []User{}, nil
	}
	return users, nil
}

func (s *service) GetUserByUsername(username string) (*User, error) {
	return s.repo.FindByUsername(username)
}

func (s *service) GetUserByEmail(email string) (*User, error) {
	return s.repo.FindByEmail(email)
}

func (s *service) Exists(username string) (bool, error) {
	return s.repo.UsernameExists(username)
}

func (s *service) GetGroups() ([]Group, error) {
	groups, err := s.repo.FindAllGroups()
	if err != nil {
		return nil, err
	}
	if groups == nil {
		return []Group{}, nil
	}
	return groups, nil
}

func (s *service) GetGroup(name string) (*Group, error) {
	return s.repo.FindGroupByName(name)
}

// ResolveMembers maps a group's member emails to usernames. Emails without
// a registered user are dropped, they contribute no transactions.
func (s *service) ResolveMembers(groupName string) ([]string, error) {
	group, err := s.repo.FindGroupByName(groupName)
	if err != nil {
		return nil, err
	}
	if len(group.Members) == 0 {
		return []string{}, nil
	}
	return s.repo.UsernamesByEmails(group.Members)
}

func (s *service) AccountByEmail(email string) (*auth.Account, error) {
	u, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return &auth.Account{
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
	}, nil
}

// IsMember operates on raw email membership and does not require the email
// to resolve to a username.
func (s *service) IsMember(groupName, email string) (bool, error) {
	group, err := s.repo.FindGroupByName(groupName)
	if err != nil {
		return false, err
	}
	for _, member := range group.Members {
		if member == email {
			return true, nil
		}
	}
	return false, nil
}
