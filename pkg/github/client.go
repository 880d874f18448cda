package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/jupyterhub/prboard/pkg/apis/cache"
	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

// permissions that make a login a collaborator in the maintainer sense
var collaboratorPermissions = []string{"triage", "push", "maintain", "admin"}

// cache keys are full argument tuples. Collapsing distinct (owner, repo)
// or (org, login) pairs onto one key is a correctness bug, not an
// optimization.
type repoLocator struct {
	owner string
	repo  string
}

type authorLocator struct {
	org   string
	login string
}

const openPRsQuery = `
query ($searchQuery: String!, $cursor: String) {
  search(type: ISSUE, first: 100, query: $searchQuery, after: $cursor) {
    nodes {
      ... on PullRequest {
        id
        url
        createdAt
        additions
        deletions
        author { login }
        repository { name owner { login } }
        statusCheckRollup { state }
        mergeable
        participants(first: 100) { nodes { login } }
        reviews(first: 100) {
          nodes {
            author { login }
            state
            isMinimized
            authorCanPushToRepository
          }
        }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// Client queries GitHub for the reconciler: the open pull request set plus
// the memoized collaborator and merged-PR-count lookups classifiers use.
// Lookups are cached for the life of the process; repeated calls with the
// same arguments never re-query.
type Client struct {
	ctx   context.Context
	org   string
	repos []string

	collabCache map[repoLocator]sets.String
	countCache  map[authorLocator]int

	collabFetch func(owner, repo string) ([]*gh.User, error)
	countFetch  func(org, login string) (int, error)
	prSearch    func(searchQuery, cursor string) (gjson.Result, error)

	persist    cache.Cache
	persistTTL time.Duration
}

// New builds a Client scoped to org. When repos is non-empty the open PR
// query is restricted to those repositories instead of the whole org.
func New(ctx context.Context, httpc *http.Client, org string, repos []string) *Client {
	client := &Client{
		ctx:         ctx,
		org:         org,
		repos:       repos,
		collabCache: make(map[repoLocator]sets.String),
		countCache:  make(map[authorLocator]int),
	}

	ghc := gh.NewClient(httpc)
	gql := NewGraphQLClient(ctx, httpc)

	client.collabFetch = func(owner, repo string) ([]*gh.User, error) {
		opts := &gh.ListCollaboratorsOptions{
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		var users []*gh.User
		for {
			page, resp, err := ghc.Repositories.ListCollaborators(client.ctx, owner, repo, opts)
			if err != nil {
				return nil, err
			}
			users = append(users, page...)
			if resp.NextPage == 0 {
				return users, nil
			}
			opts.Page = resp.NextPage
		}
	}

	client.countFetch = func(org, login string) (int, error) {
		query := fmt.Sprintf("org:%s author:%s is:pr is:closed", org, login)
		result, _, err := ghc.Search.Issues(client.ctx, query, &gh.SearchOptions{
			ListOptions: gh.ListOptions{PerPage: 1},
		})
		if err != nil {
			return 0, err
		}
		return result.GetTotal(), nil
	}

	client.prSearch = func(searchQuery, cursor string) (gjson.Result, error) {
		variables := map[string]interface{}{"searchQuery": searchQuery}
		if cursor != "" {
			variables["cursor"] = cursor
		}
		return gql.Query(openPRsQuery, variables)
	}

	return client
}

// WithPersistentCache layers a cross-run cache over the merged-PR-count
// lookup. Collaborator sets are deliberately not persisted: permission
// changes need to take effect on the next run.
func (c *Client) WithPersistentCache(persist cache.Cache, ttl time.Duration) *Client {
	c.persist = persist
	c.persistTTL = ttl
	return c
}

// Collaborators returns the logins with at least triage permission on the
// repository. The result is memoized per (owner, repo); callers must not
// mutate the returned set.
func (c *Client) Collaborators(owner, repo string) (sets.String, error) {
	locator := repoLocator{owner: owner, repo: repo}
	if logins, ok := c.collabCache[locator]; ok {
		return logins, nil
	}

	users, err := c.collabFetch(owner, repo)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list collaborators for %s/%s", owner, repo)
	}

	logins := sets.NewString()
	for _, user := range users {
		if hasCollaboratorPermission(user) {
			logins.Insert(user.GetLogin())
		}
	}
	c.collabCache[locator] = logins
	return logins, nil
}

func hasCollaboratorPermission(user *gh.User) bool {
	for _, permission := range collaboratorPermissions {
		if user.GetPermissions()[permission] {
			return true
		}
	}
	return false
}

// MergedPRCount returns how many closed pull requests login has authored
// within org, memoized per (org, login).
func (c *Client) MergedPRCount(org, login string) (int, error) {
	locator := authorLocator{org: org, login: login}
	if count, ok := c.countCache[locator]; ok {
		return count, nil
	}

	persistKey := fmt.Sprintf("mergedprcount~%s~%s", org, login)
	if c.persist != nil {
		if raw, err := c.persist.Get(persistKey); err == nil {
			if count, err := strconv.Atoi(string(raw)); err == nil {
				c.countCache[locator] = count
				return count, nil
			}
		}
	}

	count, err := c.countFetch(org, login)
	if err != nil {
		return 0, errors.Wrapf(err, "could not count closed pull requests for %s in %s", login, org)
	}
	c.countCache[locator] = count

	if c.persist != nil {
		if err := c.persist.Set(persistKey, []byte(strconv.Itoa(count)), c.persistTTL); err != nil {
			log.WithError(err).WithField("key", persistKey).Warning("could not persist lookup result")
		}
	}
	return count, nil
}

// OpenPullRequests fetches the full set of currently open pull requests
// matching the client's scope, materializing every search page before
// returning.
func (c *Client) OpenPullRequests() ([]v1.PullRequest, error) {
	searchQuery := c.searchQuery()
	log.WithField("query", searchQuery).Debug("searching for open pull requests")

	var prs []v1.PullRequest
	cursor := ""
	for {
		data, err := c.prSearch(searchQuery, cursor)
		if err != nil {
			return nil, errors.Wrap(err, "open pull request search failed")
		}
		for _, node := range data.Get("search.nodes").Array() {
			// draft issues and other non-PR results have no id
			if node.Get("id").String() == "" {
				continue
			}
			prs = append(prs, parsePullRequest(node))
		}
		pageInfo := data.Get("search.pageInfo")
		if !pageInfo.Get("hasNextPage").Bool() {
			return prs, nil
		}
		cursor = pageInfo.Get("endCursor").String()
	}
}

func (c *Client) searchQuery() string {
	terms := []string{}
	if len(c.repos) == 0 {
		terms = append(terms, "org:"+c.org)
	} else {
		for _, repo := range c.repos {
			if !strings.Contains(repo, "/") {
				repo = c.org + "/" + repo
			}
			terms = append(terms, "repo:"+repo)
		}
	}
	terms = append(terms, "is:pr", "state:open", "archived:false")
	return strings.Join(terms, " ")
}

func parsePullRequest(node gjson.Result) v1.PullRequest {
	pr := v1.PullRequest{
		ID:          node.Get("id").String(),
		URL:         node.Get("url").String(),
		Additions:   int(node.Get("additions").Int()),
		Deletions:   int(node.Get("deletions").Int()),
		Author:      node.Get("author.login").String(),
		CheckRollup: v1.CheckRollupState(node.Get("statusCheckRollup.state").String()),
		Mergeable:   v1.MergeableState(node.Get("mergeable").String()),
		Repo: v1.Repository{
			Name:  node.Get("repository.name").String(),
			Owner: node.Get("repository.owner.login").String(),
		},
	}
	if createdAt, err := time.Parse(time.RFC3339, node.Get("createdAt").String()); err == nil {
		pr.CreatedAt = createdAt
	} else {
		log.WithField("pr", pr.URL).
			WithField("createdAt", node.Get("createdAt").String()).
			Warning("could not parse pull request creation time")
	}
	for _, participant := range node.Get("participants.nodes").Array() {
		pr.Participants = append(pr.Participants, participant.Get("login").String())
	}
	for _, review := range node.Get("reviews.nodes").Array() {
		pr.Reviews = append(pr.Reviews, v1.Review{
			Author:        review.Get("author.login").String(),
			State:         v1.ReviewState(review.Get("state").String()),
			AuthorCanPush: review.Get("authorCanPushToRepository").Bool(),
			IsMinimized:   review.Get("isMinimized").Bool(),
		})
	}
	return pr
}
