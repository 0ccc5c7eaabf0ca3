package validator

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ColdToo/ColdPBFT/consensus"
)

const defaultConnectTimeout = 5 * time.Second

// Client reads shared ledger state through the validator's REST surface.
// It implements consensus.Service; any error it returns is transient from
// the engine's point of view, so callers wrap calls in a retry loop rather
// than inspecting failures.
type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string, connectTimeout time.Duration) *Client {
	if connectTimeout == 0 {
		connectTimeout = defaultConnectTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost: 1024,
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Transport: t, Timeout: 2 * connectTimeout},
	}
}

type settingsRequest struct {
	BlockID string   `json:"block_id"`
	Keys    []string `json:"keys"`
}

type settingsResponse struct {
	Entries map[string]string `json:"entries"`
}

// GetSettings asks the validator for the values of keys as of blockID.
// Keys without a value at that block are absent from the result.
func (c *Client) GetSettings(blockID consensus.BlockID, keys []string) (map[string]string, error) {
	body, err := json.Marshal(settingsRequest{
		BlockID: hex.EncodeToString(blockID),
		Keys:    keys,
	})
	if err != nil {
		return nil, errors.Wrap(err, "get settings: encode request")
	}

	resp, err := c.client.Post(c.endpoint+"/state/settings", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "get settings")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("get settings: validator returned %s", resp.Status)
	}

	var out settingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "get settings: decode response")
	}
	return out.Entries, nil
}

type chainHeadResponse struct {
	BlockID string `json:"block_id"`
}

// ChainHead returns the id of the current head block, the reference point
// settings are loaded at during bootstrap.
func (c *Client) ChainHead() (consensus.BlockID, error) {
	resp, err := c.client.Get(c.endpoint + "/chain/head")
	if err != nil {
		return nil, errors.Wrap(err, "chain head")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("chain head: validator returned %s", resp.Status)
	}

	var out chainHeadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "chain head: decode response")
	}

	id, err := hex.DecodeString(out.BlockID)
	if err != nil {
		return nil, errors.Wrap(err, "chain head: decode block id")
	}
	return id, nil
}
