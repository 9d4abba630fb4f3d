package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sessionRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (sessionRecord) TableName() string {
	return "sessions"
}

// Store holds the bearer token in memory and mirrors it into a local
// sqlite database so a restarted terminal resumes its session.
type Store struct {
	mu    sync.Mutex
	token string
	db    *gorm.DB
}

// Open loads any persisted token. A token whose exp claim has passed is
// discarded instead of being replayed against the backend.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate session db: %w", err)
	}

	s := &Store{db: db}

	var rec sessionRecord
	if err := db.First(&rec).Error; err == nil {
		if tokenExpired(rec.Token) {
			db.Delete(&rec)
		} else {
			s.token = rec.Token
		}
	}
	return s, nil
}

// tokenExpired inspects the exp claim without verifying the signature;
// the client holds no signing secret. Unparseable tokens are kept and
// left for the backend to reject.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token

	if err := s.db.Where("1 = 1").Delete(&sessionRecord{}).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := s.db.Create(&sessionRecord{Token: token}).Error; err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear drops the in-memory token and the persisted row. Safe to call
// when no session exists.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.db.Where("1 = 1").Delete(&sessionRecord{})
}

// Authenticated reports whether a token is currently held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
