package main_test

import (
	"context"
	"testing"

	"github.com/fwojciec/woocrawl"
	main "github.com/fwojciec/woocrawl/cmd/woocrawl"
	"github.com/fwojciec/woocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("rejects index-only together with details-only", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t)

		cmd := &main.OrganizationsCmd{IndexOnly: true, DetailsOnly: true}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "mutually exclusive")
	})

	t.Run("details pass visits pending organizations only", func(t *testing.T) {
		t.Parallel()

		var got woocrawl.OrganizationFilter
		deps, stdout, _ := newDeps(t)
		deps.Organizations = &mock.OrganizationService{
			FindOrganizationsFn: func(_ context.Context, filter woocrawl.OrganizationFilter) ([]*woocrawl.Organization, error) {
				got = filter
				return nil, nil
			},
		}

		cmd := &main.OrganizationsCmd{DetailsOnly: true, Limit: 10}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.DetailsProcessed)
		assert.False(t, *got.DetailsProcessed)
		assert.Equal(t, 10, got.Limit)
		assert.Contains(t, stdout.String(), "organization details")
		assert.NotContains(t, stdout.String(), "organization index")
	})

	t.Run("index pass starts at the portal root", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		deps, stdout, _ := newDeps(t)
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*woocrawl.Response, error) {
				fetched = append(fetched, url)
				return &woocrawl.Response{URL: url, Status: 200, Body: []byte("<html></html>")}, nil
			},
		}
		deps.OrgExtractor = &mock.OrganizationExtractor{
			ExtractOrganizationIndexFn: func(string, string) (*woocrawl.OrganizationIndex, error) {
				return &woocrawl.OrganizationIndex{}, nil
			},
		}

		cmd := &main.OrganizationsCmd{IndexOnly: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{main.DefaultOrganizationsBaseURL}, fetched)
		assert.Contains(t, stdout.String(), "organization index")
	})
}
