package lobstr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Squid is a scraping job configured for a single crawler.
type Squid struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Crawler   string `json:"crawler"`
	CreatedAt string `json:"created_at"`
}

// Account is a vendor-side credential used by crawlers that need a login.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"`
}

// SquidSettings configures a squid before a run.
type SquidSettings struct {
	// Accounts lists the account IDs the crawler logs in with.
	Accounts []string
	// EnrichEmail enables the vendor's email enrichment function.
	EnrichEmail bool
}

// CreateSquid creates a new squid for the given crawler and returns its ID.
func (c *Client) CreateSquid(ctx context.Context, crawlerID string) (string, error) {
	c.logger.InfoContext(ctx, "creating squid", "crawler", crawlerID)

	var created struct {
		ID string `json:"id"`
	}
	payload := map[string]string{"crawler": crawlerID}
	if err := c.do(ctx, http.MethodPost, "/squids", nil, payload, &created); err != nil {
		return "", fmt.Errorf("create squid: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("create squid: response contained no ID")
	}

	c.logger.InfoContext(ctx, "squid created", "squid", created.ID)
	return created.ID, nil
}

// UpdateSquid applies settings to an existing squid.
func (c *Client) UpdateSquid(ctx context.Context, squidID string, settings SquidSettings) error {
	c.logger.InfoContext(ctx, "updating squid",
		"squid", squidID, "accounts", settings.Accounts, "email", settings.EnrichEmail)

	payload := map[string]any{
		"accounts":       settings.Accounts,
		"no_line_breaks": true,
		"params": map[string]any{
			"functions": map[string]bool{"email": settings.EnrichEmail},
		},
	}
	if err := c.do(ctx, http.MethodPost, "/squids/"+squidID, nil, payload, nil); err != nil {
		return fmt.Errorf("update squid %s: %w", squidID, err)
	}
	return nil
}

// EmptySquid removes all URL tasks from a squid.
func (c *Client) EmptySquid(ctx context.Context, squidID string) error {
	c.logger.InfoContext(ctx, "emptying squid", "squid", squidID)

	payload := map[string]string{"type": "url"}
	if err := c.do(ctx, http.MethodPost, "/squids/"+squidID+"/empty", nil, payload, nil); err != nil {
		return fmt.Errorf("empty squid %s: %w", squidID, err)
	}
	return nil
}

// DeleteSquid deletes a squid.
func (c *Client) DeleteSquid(ctx context.Context, squidID string) error {
	c.logger.InfoContext(ctx, "deleting squid", "squid", squidID)

	if err := c.do(ctx, http.MethodDelete, "/squids/"+squidID, nil, nil, nil); err != nil {
		return fmt.Errorf("delete squid %s: %w", squidID, err)
	}
	return nil
}

// ListSquids returns all squids on the account.
func (c *Client) ListSquids(ctx context.Context) ([]Squid, error) {
	var page struct {
		Data []Squid `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/squids", nil, nil, &page); err != nil {
		return nil, fmt.Errorf("list squids: %w", err)
	}

	c.logger.InfoContext(ctx, "fetched squids", "count", len(page.Data))
	return page.Data, nil
}

// LinkedInSquids returns only squids for the LinkedIn profile crawler.
func (c *Client) LinkedInSquids(ctx context.Context) ([]Squid, error) {
	squids, err := c.ListSquids(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []Squid
	for _, s := range squids {
		if s.Crawler == LinkedInProfileCrawler {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// ListAccounts returns all accounts on the account.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var page struct {
		Data []Account `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, nil, &page); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	c.logger.InfoContext(ctx, "fetched accounts", "count", len(page.Data))
	return page.Data, nil
}

// LinkedInAccounts returns only LinkedIn sync accounts.
func (c *Client) LinkedInAccounts(ctx context.Context) ([]Account, error) {
	accounts, err := c.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []Account
	for _, a := range accounts {
		if a.Type == AccountTypeLinkedIn {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}
