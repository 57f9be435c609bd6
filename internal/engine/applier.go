// Package engine — applier.go: начисление очков, разблокировка достижений
// и применение выпавших наград.
package engine

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/features/achievements"
	"serotonyl.ru/bible-reading/internal/features/points"
	"serotonyl.ru/bible-reading/internal/features/rewards"
	"serotonyl.ru/bible-reading/internal/features/streak"
)

// Effect — что изменила награда.
type Effect struct {
	Applied bool   `json:"applied"`
	Detail  string `json:"detail,omitempty"`
}

// awardPoints начисляет очки. Каждый новый уровень запускает проверку
// достижений уровня, а их очки могут снова поднять уровень.
func (s *session) awardPoints(amount int) error {
	if amount <= 0 {
		return nil
	}
	p, err := get(s, &s.points)
	if err != nil {
		return err
	}
	next, reached := points.Award(*p, amount)
	*p = next
	s.points.touch()

	if len(reached) == 0 {
		return nil
	}
	s.levelUps = append(s.levelUps, reached...)
	log.WithFields(log.Fields{
		"user_id": s.userID,
		"level":   next.Level,
	}).Info("Повышение уровня")
	return s.checkLevelAchievements()
}

// unlock разблокирует достижение и начисляет очки за редкость.
// Повторная разблокировка — тихий no-op.
func (s *session) unlock(id string) (bool, error) {
	a, err := get(s, &s.achievements)
	if err != nil {
		return false, err
	}
	next, u, ok := achievements.Unlock(*a, id, s.now)
	if !ok {
		return false, nil
	}
	*a = next
	s.achievements.touch()
	s.unlocked = append(s.unlocked, u)

	log.WithFields(log.Fields{
		"user_id":     s.userID,
		"achievement": u.ID,
		"rarity":      u.Rarity,
	}).Info("Достижение разблокировано")

	return true, s.awardPoints(achievements.PointsFor(u.Rarity))
}

func (s *session) unlockAll(ids []string) error {
	for _, id := range ids {
		if _, err := s.unlock(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) checkLevelAchievements() error {
	p, err := get(s, &s.points)
	if err != nil {
		return err
	}
	return s.unlockAll(achievements.LevelEarned(p.Level))
}

func (s *session) checkStreakAchievements() error {
	st, err := get(s, &s.streak)
	if err != nil {
		return err
	}
	return s.unlockAll(achievements.StreakEarned(st.CurrentStreak))
}

func (s *session) checkReadingAchievements() error {
	p, err := get(s, &s.progress)
	if err != nil {
		return err
	}
	return s.unlockAll(achievements.ReadingEarned(*p))
}

// applyReward применяет награду к записям пользователя.
// Эффекты взаимоисключающие и выбираются по id награды.
func (s *session) applyReward(r rewards.Reward) (Effect, error) {
	qty := max(r.Value, 1)

	switch r.ID {
	case rewards.GraceToken:
		// Жетон начисляется, только если серия уже существует
		found, err := exists(s, &s.streak)
		if err != nil {
			return Effect{}, err
		}
		if !found {
			return Effect{Applied: false, Detail: "no streak yet"}, nil
		}
		st, err := get(s, &s.streak)
		if err != nil {
			return Effect{}, err
		}
		st.GraceTokens += qty
		s.streak.touch()
		return Effect{Applied: true, Detail: "grace tokens +" + strconv.Itoa(qty)}, nil

	case rewards.FaithPoints:
		if err := s.awardPoints(r.Value); err != nil {
			return Effect{}, err
		}
		return Effect{Applied: r.Value > 0, Detail: "faith points +" + strconv.Itoa(r.Value)}, nil

	case rewards.MysteryBox:
		rw, err := get(s, &s.rewards)
		if err != nil {
			return Effect{}, err
		}
		rw.MysteryBoxes += qty
		s.rewards.touch()
		return Effect{Applied: true, Detail: "mystery boxes +" + strconv.Itoa(qty)}, nil

	case rewards.StreakBooster:
		st, err := get(s, &s.streak)
		if err != nil {
			return Effect{}, err
		}
		*st = streak.Boost(*st, qty)
		s.streak.touch()
		if err := s.checkStreakAchievements(); err != nil {
			return Effect{}, err
		}
		return Effect{Applied: true, Detail: "streak +" + strconv.Itoa(qty)}, nil

	case rewards.HeavenlySpinToken, rewards.SuperGraceToken:
		rw, err := get(s, &s.rewards)
		if err != nil {
			return Effect{}, err
		}
		*rw = rewards.AddToken(*rw, r.ID, r.Name, qty)
		s.rewards.touch()
		return Effect{Applied: true, Detail: r.ID + " +" + strconv.Itoa(qty)}, nil

	case rewards.LevelSkip:
		p, err := get(s, &s.points)
		if err != nil {
			return Effect{}, err
		}
		*p = points.SkipLevel(*p)
		s.points.touch()
		s.levelUps = append(s.levelUps, p.Level)
		if err := s.checkLevelAchievements(); err != nil {
			return Effect{}, err
		}
		return Effect{Applied: true, Detail: "level " + strconv.Itoa(p.Level)}, nil

	case rewards.ScriptureVerse, rewards.Encouragement:
		return Effect{Applied: false, Detail: "informational"}, nil

	default:
		log.WithField("reward", r.ID).Warn("Неизвестная награда, эффект не применён")
		return Effect{Applied: false, Detail: "unknown reward"}, nil
	}
}
