package client_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"shopadmin/client"
	"shopadmin/internal/dto"
	"shopadmin/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundtrip(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	ctx := context.Background()

	c, err := client.New(server.URL, nil)
	require.NoError(t, err)
	assert.False(t, c.LoggedIn())

	user, err := c.Signup(ctx, dto.SignupRequest{
		Name:     "Ada",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, c.LoggedIn())
	assert.Equal(t, "a@x.com", user.Email)

	verified, err := c.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	ok, err := c.Status(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.LoggedIn())

	// The jar was reset, so the next call carries no cookie.
	_, err = c.Verify(ctx)
	require.Error(t, err)
	assert.True(t, client.IsAuthError(err))
}

func TestLoginAfterSignup(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	ctx := context.Background()

	c, err := client.New(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Signup(ctx, dto.SignupRequest{Name: "Ada", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))

	user, err := c.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.True(t, c.LoggedIn())
	assert.NotNil(t, user.LastLogin)
}

func TestSessionEndCallbackFiresOnce(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	ctx := context.Background()

	var ended atomic.Int32
	c, err := client.New(server.URL, func() { ended.Add(1) })
	require.NoError(t, err)

	adminClient, err := client.New(server.URL, nil)
	require.NoError(t, err)
	_, err = adminClient.Signup(ctx, dto.SignupRequest{
		Name: "Root", Email: "root@x.com", Password: "secret1", Role: "admin",
	})
	require.NoError(t, err)

	user, err := c.Signup(ctx, dto.SignupRequest{Name: "Ada", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	// Pull the account out from under the live session.
	require.NoError(t, adminClient.DeleteUser(ctx, user.ID))

	_, err = c.Verify(ctx)
	require.Error(t, err)
	assert.True(t, client.IsAuthError(err))
	assert.False(t, c.LoggedIn())
	assert.Equal(t, int32(1), ended.Load())

	// Further failing calls do not fire the callback again.
	_, err = c.Verify(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(1), ended.Load())
}

func TestForbiddenEndsSession(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	ctx := context.Background()

	var ended atomic.Int32
	c, err := client.New(server.URL, func() { ended.Add(1) })
	require.NoError(t, err)

	_, err = c.Signup(ctx, dto.SignupRequest{Name: "Ada", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	price := 1.0
	stock := 1
	_, err = c.CreateProduct(ctx, dto.CreateProductRequest{Name: "Widget", Price: &price, Stock: &stock})
	require.Error(t, err)
	assert.True(t, client.IsAuthError(err))
	assert.False(t, c.LoggedIn())
	assert.Equal(t, int32(1), ended.Load())
}

func TestAdminWorkflow(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	ctx := context.Background()

	c, err := client.New(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Signup(ctx, dto.SignupRequest{
		Name: "Root", Email: "root@x.com", Password: "secret1", Role: "admin",
	})
	require.NoError(t, err)

	created, err := c.CreateUser(ctx, dto.CreateUserRequest{Name: "Bob", Email: "b@x.com"})
	require.NoError(t, err)

	phone := "+15550100"
	updated, err := c.UpdateUser(ctx, created.ID, dto.UpdateUserRequest{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	list, err := c.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Pagination.Total)

	price := 9.99
	stock := 5
	product, err := c.CreateProduct(ctx, dto.CreateProductRequest{Name: "Widget", Price: &price, Stock: &stock})
	require.NoError(t, err)

	newPrice := 12.5
	changed, err := c.UpdateProduct(ctx, product.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newPrice, changed.Price)

	require.NoError(t, c.DeleteProduct(ctx, product.ID))

	products, err := c.ListProducts(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, products.Items)
}

func TestProfileUpdates(t *testing.T) {
	server, _, _ := testutil.NewServer(t)
	ctx := context.Background()

	c, err := client.New(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Signup(ctx, dto.SignupRequest{Name: "Ada", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	age := 30
	profile, err := c.UpdateProfile(ctx, dto.UpdateProfileRequest{Age: &age})
	require.NoError(t, err)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 30, *profile.Age)

	pixel := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="
	profile, err = c.UploadProfilePicture(ctx, pixel)
	require.NoError(t, err)
	require.NotNil(t, profile.Avatar)
	assert.Contains(t, *profile.Avatar, "avatars/")
}

func TestMonitorDetectsExpiry(t *testing.T) {
	server, _, _ := testutil.NewServer(t, testutil.WithTokenTTL(150*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ended atomic.Int32
	c, err := client.New(server.URL, func() { ended.Add(1) })
	require.NoError(t, err)

	_, err = c.Signup(ctx, dto.SignupRequest{Name: "Ada", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.True(t, c.LoggedIn())

	monitor := client.NewSessionMonitor(c, 20*time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return !c.LoggedIn()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), ended.Load())

	cancel()
	<-done
}
