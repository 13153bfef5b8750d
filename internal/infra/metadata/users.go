package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// UserClient resolves platform user ids to display nicknames.
type UserClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewUserClient creates a UserClient against the given base URL.
func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type userDetail struct {
	UID      int64  `json:"uid"`
	Nickname string `json:"nickname"`
}

// Nickname returns the nickname for the given user id, or "" when the user
// does not exist.
func (c *UserClient) Nickname(ctx context.Context, uid int64) (string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/user/%d", c.baseURL, uid)

	var user userDetail
	if err := getJSON(ctx, c.httpClient, endpoint, &user); err != nil {
		if errors.Is(err, errNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("user lookup %d: %w", uid, err)
	}
	return user.Nickname, nil
}
