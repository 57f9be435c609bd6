// Package admin реализует проверку учётных данных администратора
// с защитой от подбора пароля.
package admin

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/common"
)

// Ошибки входа
var (
	ErrDisabled     = errors.New("админ-доступ не настроен")
	ErrBadPassword  = errors.New("неверный пароль")
	ErrTooManyTries = errors.New("слишком много попыток, подождите")
)

// Лимит неудачных попыток: 3 за час с одного адреса.
const (
	MaxAttempts   = 3
	AttemptWindow = time.Hour
)

// Service проверяет пароль администратора.
type Service struct {
	hash  string
	clock common.Clock

	mu       sync.Mutex
	failures map[string][]time.Time // адрес → время неудачных попыток
}

// NewService создаёт сервис. Пустой hash выключает админ-доступ.
func NewService(hash string, clock common.Clock) *Service {
	return &Service{
		hash:     hash,
		clock:    clock,
		failures: make(map[string][]time.Time),
	}
}

// Enabled — задан ли хеш пароля.
func (s *Service) Enabled() bool {
	return s.hash != ""
}

// Authenticate проверяет пароль. После MaxAttempts неудач за AttemptWindow
// адрес блокируется до истечения окна, даже при верном пароле.
func (s *Service) Authenticate(remote, password string) error {
	if !s.Enabled() {
		return ErrDisabled
	}

	now := s.clock.Now()
	s.mu.Lock()
	recent := s.recentLocked(remote, now)
	s.mu.Unlock()
	if len(recent) >= MaxAttempts {
		log.WithField("remote", remote).Warn("Админ-вход заблокирован: превышен лимит попыток")
		return ErrTooManyTries
	}

	match, err := VerifyPassword(password, s.hash)
	if err != nil {
		log.WithError(err).Error("Ошибка проверки пароля администратора")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !match {
		s.failures[remote] = append(s.recentLocked(remote, now), now)
		log.WithFields(log.Fields{
			"remote":   remote,
			"failures": len(s.failures[remote]),
		}).Warn("Неудачная попытка админ-входа")
		return ErrBadPassword
	}
	delete(s.failures, remote)
	return nil
}

// recentLocked отбрасывает попытки старше окна. Вызывать под s.mu.
func (s *Service) recentLocked(remote string, now time.Time) []time.Time {
	attempts := s.failures[remote]
	cutoff := now.Add(-AttemptWindow)
	valid := attempts[:0]
	for _, t := range attempts {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(s.failures, remote)
		return nil
	}
	s.failures[remote] = valid
	return valid
}
