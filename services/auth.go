package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"MediCareHMS/models"
	"MediCareHMS/role"
	"MediCareHMS/token"
	"MediCareHMS/util"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type SignupInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type PatientSignupInput struct {
	FullName   string `json:"fullName" binding:"required"`
	Username   string `json:"username" binding:"required,min=3"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Phone      string `json:"phone"`
	Age        int    `json:"age" binding:"gte=0,lte=150"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"bloodGroup"`
	Address    string `json:"address"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"user"`
	Patient *models.Patient `json:"patient,omitempty"`
	Doctor  *models.Doctor  `json:"doctor,omitempty"`
}

type Availability struct {
	Email    FieldAvailability `json:"email"`
	Username FieldAvailability `json:"username"`
}

type FieldAvailability struct {
	Available bool `json:"available"`
}

type AuthService struct {
	Users    UserStore
	Admins   AllowedAdminStore
	Patients PatientStore
	Doctors  DoctorStore
	Tokens   *token.Manager
	Now      func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

/*
* Check the username and email are free
* Admin accounts need an AllowedAdmin entry for the email
* Hash the password and create the user
* A patient account gets a minimal profile
 */
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	r := role.Normalize(in.Role)
	if r == "" {
		r = role.Patient
	}
	if r == role.Doctor || !role.Valid(r) {
		return nil, util.Validation(util.INVALID_ROLE)
	}
	if r == role.Admin {
		ok, err := s.Admins.IsAllowed(ctx, in.Email)
		if err != nil {
			log.Error().Err(err).Msg("Error from IsAllowed")
			return nil, err
		}
		if !ok {
			return nil, util.Forbidden(util.ADMIN_NOT_ALLOWED)
		}
	}

	user, err := s.createUser(ctx, in.Username, in.Email, in.Password, r)
	if err != nil {
		return nil, err
	}
	res := &AuthResult{User: user}
	if r == role.Patient {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = user.Username
		}
		p := &models.Patient{
			PatientID: util.GenerateCode(util.PatientPrefix),
			User:      user.ID,
			FullName:  name,
			Contact:   models.Contact{Email: user.Email},
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.CreatedAt,
		}
		if err := s.Patients.Create(ctx, p); err != nil {
			log.Error().Err(err).Msg("Error creating patient profile")
			return nil, err
		}
		res.Patient = p
	}
	return s.sign(res)
}

/*
* Create the patient user
* Create the profile linked to it
* Return a token so the caller is logged in straight away
 */
func (s *AuthService) PatientSignup(ctx context.Context, in PatientSignupInput) (*AuthResult, error) {
	user, err := s.createUser(ctx, in.Username, in.Email, in.Password, role.Patient)
	if err != nil {
		return nil, err
	}
	p := &models.Patient{
		PatientID:  util.GenerateCode(util.PatientPrefix),
		User:       user.ID,
		FullName:   strings.TrimSpace(in.FullName),
		Age:        in.Age,
		Gender:     in.Gender,
		BloodGroup: in.BloodGroup,
		Contact:    models.Contact{Phone: in.Phone, Email: user.Email},
		Address:    models.Address{Street: strings.TrimSpace(in.Address)},
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.CreatedAt,
	}
	if err := s.Patients.Create(ctx, p); err != nil {
		log.Error().Err(err).Msg("Error creating patient profile")
		if derr := s.Users.Delete(ctx, user.ID); derr != nil {
			log.Error().Err(derr).Msg("Error rolling back patient user")
		}
		return nil, err
	}
	return s.sign(&AuthResult{User: user, Patient: p})
}

func (s *AuthService) createUser(ctx context.Context, username, email, password, r string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	usernameTaken, emailTaken, err := s.Users.Taken(ctx, username, email)
	if err != nil {
		log.Error().Err(err).Msg("Error from Taken")
		return nil, err
	}
	if emailTaken {
		return nil, util.Conflict(util.EMAIL_ALREADY_EXISTS)
	}
	if usernameTaken {
		return nil, util.Conflict(util.USERNAME_ALREADY_EXISTS)
	}

	hash, err := HashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("Error hashing password")
		return nil, err
	}
	now := s.now()
	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		Role:      r,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		log.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	return user, nil
}

/*
* Find the user by email or username
* Compare the bcrypt hash
* Attach the role profile and sign a token
 */
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(in.Email)
	if identifier == "" {
		identifier = strings.TrimSpace(in.Username)
	}
	if identifier == "" {
		return nil, util.Validation(util.INVALID_CREDENTIALS)
	}
	user, err := s.Users.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
		}
		log.Error().Err(err).Msg("Error from FindByLogin")
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	res := &AuthResult{User: user}
	s.attachProfile(ctx, res)
	return s.sign(res)
}

// Me returns the caller's user with its role profile.
func (s *AuthService) Me(ctx context.Context, actor Actor) (*AuthResult, error) {
	user, err := s.Users.FindByID(ctx, actor.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Error from FindByID")
		return nil, err
	}
	res := &AuthResult{User: user}
	s.attachProfile(ctx, res)
	return res, nil
}

func (s *AuthService) Availability(ctx context.Context, username, email string) (*Availability, error) {
	usernameTaken, emailTaken, err := s.Users.Taken(ctx, username, email)
	if err != nil {
		log.Error().Err(err).Msg("Error from Taken")
		return nil, err
	}
	return &Availability{
		Email:    FieldAvailability{Available: strings.TrimSpace(email) != "" && !emailTaken},
		Username: FieldAvailability{Available: strings.TrimSpace(username) != "" && !usernameTaken},
	}, nil
}

func (s *AuthService) attachProfile(ctx context.Context, res *AuthResult) {
	switch res.User.Role {
	case role.Patient:
		if p, err := s.Patients.FindByUser(ctx, res.User.ID); err == nil {
			res.Patient = p
		}
	case role.Doctor:
		if d, err := s.Doctors.FindByUser(ctx, res.User.ID); err == nil {
			res.Doctor = d
		}
	}
}

func (s *AuthService) sign(res *AuthResult) (*AuthResult, error) {
	signed, err := s.Tokens.Generate(res.User.ID.Hex(), res.User.Username, res.User.Role)
	if err != nil {
		log.Error().Err(err).Msg("Error generating token")
		return nil, err
	}
	res.Token = signed
	return res, nil
}

/*
* Upsert the AllowedAdmin entry
* Create the admin user or reset its password and role
 */
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password, username, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, util.Validation(util.INVALID_CREDENTIALS)
	}
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if err := s.Admins.Upsert(ctx, models.AllowedAdmin{Email: email, Name: name}); err != nil {
		log.Error().Err(err).Msg("Error upserting allowed admin")
		return nil, err
	}

	existing, err := s.Users.FindByLogin(ctx, email)
	if err != nil && !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		return s.createUser(ctx, username, email, password, role.Admin)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	existing.Password = hash
	existing.Role = role.Admin
	existing.UpdatedAt = s.now()
	if err := s.Users.Replace(ctx, existing); err != nil {
		log.Error().Err(err).Msg("Error updating admin user")
		return nil, err
	}
	return existing, nil
}
