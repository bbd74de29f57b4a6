package repository

import (
	"database/sql"
	"go-auth-api/logger"
	"go-auth-api/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	Create(user *model.User) error
	GetByUserID(userID string) (*model.User, error)
	GetPasswordByUserID(userID string) (string, error)
	UpdateRefreshToken(userID string, refreshToken *string) error
	UpdateProfile(user *model.User) error
}

// UserRepository implements IUserRepository on top of PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user record.
func (r *UserRepository) Create(user *model.User) error {
	log := logger.Log.WithField("user_id", user.UserID)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (user_id, password, name, age, email, phone_num, height) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	err := r.DB.QueryRow(query, user.UserID, user.Password, user.Name, user.Age, user.Email, user.PhoneNum, user.Height).Scan(&user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetByUserID retrieves a full user record. Returns sql.ErrNoRows when no
// such account exists.
func (r *UserRepository) GetByUserID(userID string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT user_id, password, name, age, email, phone_num, height, refresh_token, created_at FROM users WHERE user_id = $1`
	err := r.DB.QueryRow(query, userID).Scan(&user.UserID, &user.Password, &user.Name, &user.Age, &user.Email, &user.PhoneNum, &user.Height, &user.RefreshToken, &user.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute get user query")
		}
		return nil, err
	}
	return user, nil
}

// GetPasswordByUserID retrieves only the password digest for an account.
// A projection keeps the rest of the record out of the login path; absent
// accounts surface as sql.ErrNoRows, distinct from an empty digest.
func (r *UserRepository) GetPasswordByUserID(userID string) (string, error) {
	var password string
	query := `SELECT password FROM users WHERE user_id = $1`
	err := r.DB.QueryRow(query, userID).Scan(&password)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute get password query")
		}
		return "", err
	}
	return password, nil
}

// UpdateRefreshToken overwrites the stored refresh token for an account.
// Passing nil clears it. Updating a missing account matches zero rows and
// is not an error, which keeps logout idempotent.
func (r *UserRepository) UpdateRefreshToken(userID string, refreshToken *string) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":   userID,
		"has_token": refreshToken != nil,
	})
	log.Info("Executing query to update refresh token")

	query := `UPDATE users SET refresh_token = $1 WHERE user_id = $2`
	_, err := r.DB.Exec(query, refreshToken, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update refresh token query")
		return err
	}
	return nil
}

// UpdateProfile persists the mutable profile fields of a user.
func (r *UserRepository) UpdateProfile(user *model.User) error {
	log := logger.Log.WithField("user_id", user.UserID)
	log.Info("Executing query to update user profile")

	query := `UPDATE users SET name = $1, age = $2, email = $3, phone_num = $4, height = $5 WHERE user_id = $6`
	res, err := r.DB.Exec(query, user.Name, user.Age, user.Email, user.PhoneNum, user.Height, user.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update profile query")
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
