package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
)

// fakeHostAPI counts upstream calls so cache behavior is observable.
type fakeHostAPI struct {
	hosts     []checkmkclient.Host
	listCalls int
	getCalls  int
	services  []checkmkclient.Service
	updated   map[string]interface{}
	etag      string
	deleted   []string
}

func (f *fakeHostAPI) ListHosts(ctx context.Context, p checkmkclient.ListHostsParams) ([]checkmkclient.Host, error) {
	f.listCalls++
	return f.hosts, nil
}

func (f *fakeHostAPI) GetHost(ctx context.Context, name string, eff bool) (*checkmkclient.Host, error) {
	f.getCalls++
	for i := range f.hosts {
		if f.hosts[i].Name == name {
			return &f.hosts[i], nil
		}
	}
	return nil, &checkmkclient.NotFoundError{ResourceType: "host", ResourceID: name}
}

func (f *fakeHostAPI) CreateHost(ctx context.Context, p checkmkclient.CreateHostParams) (*checkmkclient.Host, error) {
	h := checkmkclient.Host{Name: p.Name, FolderPath: p.FolderPath, Attributes: p.Attributes}
	f.hosts = append(f.hosts, h)
	return &h, nil
}

func (f *fakeHostAPI) UpdateHost(ctx context.Context, name, etag string, attrs map[string]interface{}) error {
	f.updated = attrs
	f.etag = etag
	return nil
}

func (f *fakeHostAPI) DeleteHost(ctx context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeHostAPI) ListHostServices(ctx context.Context, hostName string) ([]checkmkclient.Service, error) {
	return f.services, nil
}

func newHostFixture(hosts ...checkmkclient.Host) (*HostService, *fakeHostAPI, *cache.Cache) {
	api := &fakeHostAPI{hosts: hosts}
	c := cache.New(100, time.Minute, 0)
	return NewHostService(api, c, time.Minute), api, c
}

func TestHostService_ListCachesUpstream(t *testing.T) {
	svc, api, _ := newHostFixture(
		checkmkclient.Host{Name: "web01", FolderPath: "/prod/"},
		checkmkclient.Host{Name: "web02", FolderPath: "/prod/"},
	)

	first, err := svc.List(context.Background(), checkmkclient.ListHostsParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Count)

	_, err = svc.List(context.Background(), checkmkclient.ListHostsParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, api.listCalls)
}

func TestHostService_ListPaginates(t *testing.T) {
	svc, _, _ := newHostFixture(
		checkmkclient.Host{Name: "a"}, checkmkclient.Host{Name: "b"}, checkmkclient.Host{Name: "c"},
	)

	page, err := svc.List(context.Background(), checkmkclient.ListHostsParams{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, "b", page.Hosts[0].Name)

	empty, err := svc.List(context.Background(), checkmkclient.ListHostsParams{Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
}

func TestHostService_CreateInvalidatesListCache(t *testing.T) {
	svc, api, _ := newHostFixture(checkmkclient.Host{Name: "web01"})

	_, err := svc.List(context.Background(), checkmkclient.ListHostsParams{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), checkmkclient.CreateHostParams{Name: "web02", FolderPath: "/"})
	require.NoError(t, err)

	refreshed, err := svc.List(context.Background(), checkmkclient.ListHostsParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, api.listCalls)
	assert.Equal(t, 2, refreshed.Count)
}

func TestHostService_CreateInvalidatesFolderScopedListCache(t *testing.T) {
	svc, api, _ := newHostFixture(checkmkclient.Host{Name: "web01", FolderPath: "/network/monitoring/"})

	// The cache key for this read embeds the folder path.
	_, err := svc.List(context.Background(), checkmkclient.ListHostsParams{Folder: "/network/monitoring/"})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), checkmkclient.ListHostsParams{Folder: "/network/monitoring/"})
	require.NoError(t, err)
	assert.Equal(t, 1, api.listCalls)

	_, err = svc.Create(context.Background(), checkmkclient.CreateHostParams{Name: "web02", FolderPath: "/network/monitoring/"})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), checkmkclient.ListHostsParams{Folder: "/network/monitoring/"})
	require.NoError(t, err)
	assert.Equal(t, 2, api.listCalls)
}

func TestHostService_UpdateDefaultsToUnconditionalEtag(t *testing.T) {
	svc, api, _ := newHostFixture(checkmkclient.Host{Name: "web01"})
	err := svc.Update(context.Background(), "web01", "", map[string]interface{}{"alias": "w1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"alias": "w1"}, api.updated)
	assert.Equal(t, "*", api.etag)
}

func TestHostService_GetCachesPerEffectiveFlag(t *testing.T) {
	svc, api, _ := newHostFixture(checkmkclient.Host{Name: "web01"})

	_, err := svc.Get(context.Background(), "web01", false)
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), "web01", false)
	require.NoError(t, err)
	assert.Equal(t, 1, api.getCalls)

	_, err = svc.Get(context.Background(), "web01", true)
	require.NoError(t, err)
	assert.Equal(t, 2, api.getCalls)
}
