package http

import (
	"context"
	"io"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// Robots answers robots.txt questions for the client's User-Agent.
//
// robots.txt is fetched at most once per scheme and host and cached. A
// missing, unreachable or unparsable robots.txt allows everything.
type Robots struct {
	client *Client
	agent  string

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

// NewRobots creates a robots.txt cache that fetches through client.
func NewRobots(client *Client) *Robots {
	return &Robots{
		client: client,
		agent:  client.UserAgent(),
		groups: make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	group := r.group(ctx, u.Scheme+"://"+u.Host)
	if group == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (r *Robots) group(ctx context.Context, origin string) *robotstxt.Group {
	r.mu.Lock()
	group, ok := r.groups[origin]
	r.mu.Unlock()
	if ok {
		return group
	}

	group = r.fetch(ctx, origin)

	r.mu.Lock()
	r.groups[origin] = group
	r.mu.Unlock()

	return group
}

func (r *Robots) fetch(ctx context.Context, origin string) *robotstxt.Group {
	resp, err := r.client.do(ctx, origin+"/robots.txt")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data.FindGroup(r.agent)
}
