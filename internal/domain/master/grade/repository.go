package grade

import "context"

type GradeRepository interface {
	Create(ctx context.Context, grade Grade) (Grade, error)
	GetByID(ctx context.Context, id string) (Grade, error)
	List(ctx context.Context) ([]Grade, error)
}
