package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"restaurant-service/cache"
	apperrors "restaurant-service/common/errors"
	"restaurant-service/models"
	awspkg "restaurant-service/pkg/aws"
	"restaurant-service/repository"
)

// TableService resolves table codes to identities.
type TableService interface {
	// Create returns the ID for code, creating the table when it does not
	// exist yet. created reports whether this call inserted it.
	Create(ctx context.Context, code string) (id int64, created bool, err error)
	List(ctx context.Context) ([]models.Table, error)
}

// MenuService resolves menu names to identities.
type MenuService interface {
	Create(ctx context.Context, name string) (id int64, created bool, err error)
	List(ctx context.Context) ([]models.Menu, error)
}

// identityResolver implements get-or-create over a natural key with an
// optional read-through cache in front of the store.
type identityResolver struct {
	kind    string
	cache   IdentityCache
	metrics metricsSink
	logger  *zap.Logger
}

func (r identityResolver) resolve(
	ctx context.Context,
	key string,
	find func() (int64, bool, error),
	create func() (int64, error),
) (int64, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, false, apperrors.BadRequest("A " + r.kind + " identifier is required")
	}

	if id, ok := r.cached(ctx, key); ok {
		return id, false, nil
	}

	id, found, err := find()
	if err != nil {
		return 0, false, err
	}
	created := false
	if !found {
		id, err = create()
		switch {
		case err == nil:
			created = true
		case errors.Is(err, apperrors.ErrConstraintViolation):
			// Someone else inserted the same key first.
			if id, found, err = find(); err != nil {
				return 0, false, err
			}
			if !found {
				return 0, false, apperrors.ConstraintViolation("identity vanished after conflict", nil)
			}
		default:
			return 0, false, err
		}
	}

	r.store(ctx, key, id)
	return id, created, nil
}

func (r identityResolver) cached(ctx context.Context, key string) (int64, bool) {
	if r.cache == nil {
		return 0, false
	}
	id, ok, err := r.cache.Get(ctx, r.kind, key)
	if err != nil {
		r.logger.Warn("Identity cache read failed", zap.String("kind", r.kind), zap.Error(err))
		return 0, false
	}
	if ok {
		r.metrics.count(ctx, awspkg.MetricCacheHits, map[string]string{"Kind": r.kind})
	} else {
		r.metrics.count(ctx, awspkg.MetricCacheMisses, map[string]string{"Kind": r.kind})
	}
	return id, ok
}

func (r identityResolver) store(ctx context.Context, key string, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, r.kind, key, id); err != nil {
		r.logger.Warn("Identity cache write failed", zap.String("kind", r.kind), zap.Error(err))
	}
}

type tableServiceImpl struct {
	store    repository.Store
	resolver identityResolver
}

// NewTableService creates a TableService. idCache and metrics may be nil.
func NewTableService(store repository.Store, idCache IdentityCache, metrics MetricsRecorder, logger *zap.Logger) TableService {
	return &tableServiceImpl{
		store: store,
		resolver: identityResolver{
			kind:    cache.KindTable,
			cache:   idCache,
			metrics: metricsSink{recorder: metrics, service: "restaurant-service", logger: logger},
			logger:  logger,
		},
	}
}

func (s *tableServiceImpl) Create(ctx context.Context, code string) (int64, bool, error) {
	code = strings.TrimSpace(code)
	return s.resolver.resolve(ctx, code,
		func() (int64, bool, error) {
			t, err := s.store.Tables().FindByCode(ctx, code)
			if err != nil || t == nil {
				return 0, false, err
			}
			return t.ID, true, nil
		},
		func() (int64, error) {
			t := &models.Table{Code: code}
			if err := s.store.Tables().Create(ctx, t); err != nil {
				return 0, err
			}
			return t.ID, nil
		},
	)
}

func (s *tableServiceImpl) List(ctx context.Context) ([]models.Table, error) {
	return s.store.Tables().List(ctx)
}

type menuServiceImpl struct {
	store    repository.Store
	resolver identityResolver
}

// NewMenuService creates a MenuService. idCache and metrics may be nil.
func NewMenuService(store repository.Store, idCache IdentityCache, metrics MetricsRecorder, logger *zap.Logger) MenuService {
	return &menuServiceImpl{
		store: store,
		resolver: identityResolver{
			kind:    cache.KindMenu,
			cache:   idCache,
			metrics: metricsSink{recorder: metrics, service: "restaurant-service", logger: logger},
			logger:  logger,
		},
	}
}

func (s *menuServiceImpl) Create(ctx context.Context, name string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	return s.resolver.resolve(ctx, name,
		func() (int64, bool, error) {
			m, err := s.store.Menus().FindByName(ctx, name)
			if err != nil || m == nil {
				return 0, false, err
			}
			return m.ID, true, nil
		},
		func() (int64, error) {
			m := &models.Menu{Name: name}
			if err := s.store.Menus().Create(ctx, m); err != nil {
				return 0, err
			}
			return m.ID, nil
		},
	)
}

func (s *menuServiceImpl) List(ctx context.Context) ([]models.Menu, error) {
	return s.store.Menus().List(ctx)
}
