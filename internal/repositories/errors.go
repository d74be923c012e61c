package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// translate maps driver errors onto the domain taxonomy, keeping op as context.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	case isUnavailable(err):
		return fmt.Errorf("%s: %w: %w", op, models.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isUnavailable(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err)
}
