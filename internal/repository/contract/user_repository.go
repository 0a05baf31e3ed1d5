package contract

import (
	"context"

	"github.com/Srushti-17/Docolab/internal/entity"
	"github.com/Srushti-17/Docolab/internal/repository/specification"
)

// UserRepository reads the identity directory. This core never writes users.
type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
}
