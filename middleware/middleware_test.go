package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/pagecache"
	"github.com/cppla/yatube/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, target string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRequired_RedirectsWithNext(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.Use(Authenticate(tokens, nil))
	called := false
	r.GET("/create", LoginRequired("/auth/login"), func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodGet, "/create?x=1", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?next=%2Fcreate%3Fx%3D1", w.Header().Get("Location"))
	assert.False(t, called)

	tok, _, err := tokens.Generate(3, "leo")
	require.NoError(t, err)
	w = perform(r, http.MethodGet, "/create", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestAuthenticate_CookieAndRevocation(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	blacklist := utils.NewTokenBlacklist(nil)
	r := gin.New()
	r.Use(Authenticate(tokens, blacklist))
	r.GET("/me", func(c *gin.Context) {
		_, name, ok := CurrentUser(c)
		c.String(http.StatusOK, "%v:%s", ok, name)
	})

	tok, exp, err := tokens.Generate(5, "ann")
	require.NoError(t, err)
	withCookie := func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok})
	}

	assert.Equal(t, "true:ann", perform(r, http.MethodGet, "/me", withCookie).Body.String())
	assert.Equal(t, "false:", perform(r, http.MethodGet, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	}).Body.String())

	require.NoError(t, blacklist.Revoke(context.Background(), tok, exp))
	assert.Equal(t, "false:", perform(r, http.MethodGet, "/me", withCookie).Body.String())
}

func TestAdminRequired(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.Use(Authenticate(tokens, nil))
	r.POST("/admin", AdminRequired(func(u string) bool { return u == "root" }), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	as := func(name string) func(*http.Request) {
		tok, _, err := tokens.Generate(1, name)
		require.NoError(t, err)
		return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) }
	}
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodPost, "/admin", as("leo")).Code)
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/admin", as("root")).Code)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(2).Middleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/x", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/x", nil).Code)
}

func TestCachePage_ServesStoredCopy(t *testing.T) {
	store := pagecache.NewMemoryStore(nil)
	var calls int32
	r := gin.New()
	r.GET("/", CachePage(store, time.Minute, nil), func(c *gin.Context) {
		n := atomic.AddInt32(&calls, 1)
		utils.Success(c, gin.H{"render": n})
	})

	first := perform(r, http.MethodGet, "/", nil)
	second := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get("Content-Type"), second.Header().Get("Content-Type"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// query strings are cached separately
	other := perform(r, http.MethodGet, "/?page=2", nil)
	assert.NotEqual(t, first.Body.String(), other.Body.String())

	require.NoError(t, store.Clear(context.Background()))
	third := perform(r, http.MethodGet, "/", nil)
	assert.NotEqual(t, first.Body.String(), third.Body.String())
}

func TestCachePage_SkipsFailures(t *testing.T) {
	store := pagecache.NewMemoryStore(nil)
	var calls int32
	r := gin.New()
	r.GET("/", CachePage(store, time.Minute, nil), func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		utils.Error(c, http.StatusInternalServerError, utils.CodeInternal, "boom")
	})

	perform(r, http.MethodGet, "/", nil)
	perform(r, http.MethodGet, "/", nil)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestCachePage_CollapsesConcurrentMisses(t *testing.T) {
	store := pagecache.NewMemoryStore(nil)
	var calls int32
	release := make(chan struct{})
	r := gin.New()
	r.GET("/", CachePage(store, time.Minute, nil), func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		<-release
		c.String(http.StatusOK, "feed")
	})

	const n = 5
	var wg sync.WaitGroup
	bodies := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bodies[i] = perform(r, http.MethodGet, "/", nil).Body.String()
		}(i)
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, b := range bodies {
		assert.True(t, strings.HasPrefix(b, "feed"))
	}
}
