package remarketing

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/streamleads/streamleads/internal/entity"
)

const audienceKey = "remarketing:leads"

// RedisList guarda a audiência de remarketing num set do Redis, para
// exportação posterior às plataformas de anúncio.
type RedisList struct {
	client *redis.Client
}

func NewRedisList(addr, password string, db int) *RedisList {
	return &RedisList{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (r *RedisList) Add(ctx context.Context, lead *entity.Lead) error {
	if err := r.client.SAdd(ctx, audienceKey, lead.Email).Err(); err != nil {
		return fmt.Errorf("erro ao adicionar ao remarketing: %w", err)
	}

	log.Printf("Lead %s adicionado à lista de remarketing", lead.ID)
	return nil
}

// Members retorna a audiência atual (usado na exportação).
func (r *RedisList) Members(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, audienceKey).Result()
}

func (r *RedisList) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
