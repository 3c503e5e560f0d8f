package player

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// New creates a new PlayerStore.
func New(db *sql.DB) PlayerStore {
	return &store{
		db: db,
	}
}

const userColumns = `id, email, name, phone, password_hash, partner_id, ladder_id, verified, notify_email, notify_sms, created_at`

// scanUser is a helper to scan a single user row.
func scanUser(scanner interface{ Scan(...any) error }) (*User, error) {
	var u User
	var verified, notifyEmail, notifySMS int
	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Phone,
		&u.PasswordHash,
		&u.PartnerID,
		&u.LadderID,
		&verified,
		&notifyEmail,
		&notifySMS,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Verified = verified != 0
	u.NotifyEmail = notifyEmail != 0
	u.NotifySMS = notifySMS != 0
	return &u, nil
}

func (s *store) Register(email, name, password, ladderID string) (*User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&exists); err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:          uuid.New().String(),
		Email:       email,
		Name:        name,
		LadderID:    ladderID,
		NotifyEmail: true,
		CreatedAt:   time.Now().Unix(),
	}
	u.PasswordHash = string(hash)
	token := uuid.New().String()

	_, err = s.db.Exec(`
		INSERT INTO users (id, email, name, password_hash, ladder_id, verified, verification_token, notify_email, notify_sms, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, 1, 0, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.LadderID, token, u.CreatedAt,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to insert user: %w", err)
	}

	log.Info("Registered new player", "playerID", u.ID, "ladderID", ladderID)
	return u, token, nil
}

func (s *store) Verify(token string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE verification_token = ?", token)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up verification token: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET verified = 1, verification_token = NULL WHERE id = ?", u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	u.Verified = true
	log.Info("Player verified", "playerID", u.ID)
	return u, nil
}

func (s *store) GetByID(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *store) GetByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// otpDigits generates a 6-digit one-time code.
func otpDigits() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *store) RequestPasswordReset(email string) (*User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	otp, err := otpDigits()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	expiresAt := time.Now().Add(15 * time.Minute).Unix()

	_, err = s.db.Exec("UPDATE users SET reset_otp = ?, reset_otp_expires_at = ? WHERE id = ?", otp, expiresAt, u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to store reset code: %w", err)
	}
	log.Info("Password reset requested", "playerID", u.ID)
	return u, otp, nil
}

func (s *store) ResetPassword(email, otp, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	var storedOTP sql.NullString
	var expiresAt sql.NullInt64
	err := s.db.QueryRow("SELECT id, reset_otp, reset_otp_expires_at FROM users WHERE email = ?", email).
		Scan(&id, &storedOTP, &expiresAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !storedOTP.Valid || storedOTP.String != otp {
		return ErrInvalidOTP
	}
	if !expiresAt.Valid || time.Now().Unix() > expiresAt.Int64 {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, reset_otp = NULL, reset_otp_expires_at = NULL WHERE id = ?", string(hash), id)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	log.Info("Password reset", "playerID", id)
	return nil
}

func (s *store) UpdateProfile(id string, upd ProfileUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if upd.Name != nil {
		if _, err := s.db.Exec("UPDATE users SET name = ? WHERE id = ?", *upd.Name, id); err != nil {
			return nil, fmt.Errorf("failed to update name: %w", err)
		}
	}
	if upd.Phone != nil {
		if _, err := s.db.Exec("UPDATE users SET phone = ? WHERE id = ?", *upd.Phone, id); err != nil {
			return nil, fmt.Errorf("failed to update phone: %w", err)
		}
	}
	if upd.NotifyEmail != nil {
		if _, err := s.db.Exec("UPDATE users SET notify_email = ? WHERE id = ?", boolToInt(*upd.NotifyEmail), id); err != nil {
			return nil, fmt.Errorf("failed to update email preference: %w", err)
		}
	}
	if upd.NotifySMS != nil {
		if _, err := s.db.Exec("UPDATE users SET notify_sms = ? WHERE id = ?", boolToInt(*upd.NotifySMS), id); err != nil {
			return nil, fmt.Errorf("failed to update sms preference: %w", err)
		}
	}

	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *store) LinkPartner(userID, partnerEmail string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	me, err := scanUser(tx.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", userID))
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	partner, err := scanUser(tx.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", partnerEmail))
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load partner: %w", err)
	}

	if me.PartnerID != nil || partner.PartnerID != nil || partner.ID == me.ID {
		tx.Rollback()
		return nil, ErrHasPartner
	}

	// A partner joining from another ladder is migrated here. Their old
	// availability and matches belong to the old ladder and are wiped.
	if partner.LadderID != me.LadderID {
		if _, err := tx.Exec("DELETE FROM availability WHERE user_id = ?", partner.ID); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to wipe partner availability: %w", err)
		}
		if _, err := tx.Exec(
			"DELETE FROM matches WHERE team1_id LIKE '%' || ? || '%' OR team2_id LIKE '%' || ? || '%'",
			partner.ID, partner.ID,
		); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to wipe partner matches: %w", err)
		}
		if _, err := tx.Exec("UPDATE users SET ladder_id = ? WHERE id = ?", me.LadderID, partner.ID); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to migrate partner ladder: %w", err)
		}
		partner.LadderID = me.LadderID
	}

	if _, err := tx.Exec("UPDATE users SET partner_id = ? WHERE id = ?", partner.ID, me.ID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to link partner: %w", err)
	}
	if _, err := tx.Exec("UPDATE users SET partner_id = ? WHERE id = ?", me.ID, partner.ID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to link partner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	partner.PartnerID = &me.ID
	log.Info("Partner link created", "playerID", me.ID, "partnerID", partner.ID)
	return partner, nil
}

func (s *store) UnlinkPartner(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var partnerID sql.NullString
	err = tx.QueryRow("SELECT partner_id FROM users WHERE id = ?", userID).Scan(&partnerID)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to load partner link: %w", err)
	}

	if _, err := tx.Exec("UPDATE users SET partner_id = NULL WHERE id = ?", userID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to unlink: %w", err)
	}
	if partnerID.Valid {
		if _, err := tx.Exec("UPDATE users SET partner_id = NULL WHERE id = ?", partnerID.String); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to unlink partner side: %w", err)
		}
	}

	return tx.Commit()
}

func (s *store) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	// Clear the reciprocal link first so the partner is not left pointing at
	// a deleted row.
	if _, err := tx.Exec("UPDATE users SET partner_id = NULL WHERE partner_id = ?", userID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear partner link: %w", err)
	}
	if _, err := tx.Exec(
		"DELETE FROM matches WHERE team1_id LIKE '%' || ? || '%' OR team2_id LIKE '%' || ? || '%'",
		userID, userID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	// Availability and sessions cascade via foreign keys.
	res, err := tx.Exec("DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Player deleted", "playerID", userID)
	return nil
}

func (s *store) ListByLadder(ladderID string) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+userColumns+" FROM users WHERE ladder_id = ? ORDER BY created_at", ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ladder users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("Failed to scan user row", "error", err)
			continue
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func CheckPassword(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
