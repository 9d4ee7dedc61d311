package feeds

import (
	"context"
	"fmt"

	"socialfeed/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// lookupUsers fetches every distinct non-empty author in one batch
func (s *Service) lookupUsers(ctx context.Context, userIds []string) (map[string]models.User, error) {
	ids := lo.Uniq(lo.Compact(userIds))
	if len(ids) == 0 {
		return map[string]models.User{}, nil
	}

	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup users: %w", err)
	}
	return users, nil
}

func (s *Service) authorOf(userId string, users map[string]models.User) models.Author {
	if userId == "" {
		return s.placeholder
	}

	user, ok := users[userId]
	if !ok {
		log.WithFields(log.Fields{
			"userId": userId,
		}).Warn("Author not found in user directory, using placeholder")
		return s.placeholder
	}

	return models.Author{
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	}
}
