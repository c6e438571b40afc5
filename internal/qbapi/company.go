package qbapi

import "context"

type companyInfoResponse struct {
	CompanyInfo struct {
		CompanyName string `json:"CompanyName"`
	} `json:"CompanyInfo"`
}

// Ping calls GET /v3/company/{realm}/companyinfo/{realm} and returns the
// company name. It fails unless the token is accepted for the realm.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var out companyInfoResponse
	if err := c.get(ctx, c.companyPath("/companyinfo/"+c.realmID), nil, &out); err != nil {
		return "", err
	}
	return out.CompanyInfo.CompanyName, nil
}
