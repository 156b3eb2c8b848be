package metadata

import "context"

// TokenStore persists the session token under TokenKey.
type TokenStore struct {
	repo Repository
}

func NewTokenStore(repo Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// LoadToken returns "" when no token is stored.
func (s *TokenStore) LoadToken(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *TokenStore) SaveToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, TokenKey, []byte(token))
}

func (s *TokenStore) ClearToken(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}
