package suite_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aron/lazy/fixture"
	"github.com/aron/lazy/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCasesShareDeclarationsButNotState(t *testing.T) {
	s := suite.New("accounts")

	factoryCalls := 0
	s.Setup(func(set *fixture.Binder) error {
		return set.Set("db", func() any {
			factoryCalls++
			return map[string]string{}
		})
	})

	s.Add("writes stay local", func(ctx *fixture.Context) error {
		db, err := fixture.Get[map[string]string](ctx, "db")
		if err != nil {
			return err
		}
		db["user"] = "ada"
		return nil
	})
	s.Add("fresh state per case", func(ctx *fixture.Context) error {
		db, err := fixture.Get[map[string]string](ctx, "db")
		if err != nil {
			return err
		}
		if len(db) != 0 {
			return errors.New("state leaked between cases")
		}
		return nil
	})

	report := s.Run()
	assert.True(t, report.Ok())
	assert.Equal(t, 2, report.Passed())
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, 2, factoryCalls)
	assert.False(t, s.Context().Has("db"))
}

func TestFailingCaseIsReported(t *testing.T) {
	s := suite.New("flaky")
	s.Add("works", func(ctx *fixture.Context) error { return nil })
	s.Add("breaks", func(ctx *fixture.Context) error {
		return errors.New("assertion blew up")
	})

	report := s.Run()
	assert.False(t, report.Ok())
	assert.Equal(t, 1, report.Passed())
	require.Equal(t, 1, report.Failed())

	assert.Equal(t, "works", report.Results[0].Name)
	assert.True(t, report.Results[0].Ok())
	assert.Equal(t, "breaks", report.Results[1].Name)
	assert.ErrorContains(t, report.Results[1].Err, "assertion blew up")
}

func TestSetupFailureSkipsBody(t *testing.T) {
	s := suite.New("broken")
	s.Setup(func(set *fixture.Binder) error {
		return errors.New("bad wiring")
	})

	bodyRan := false
	s.Add("never runs", func(ctx *fixture.Context) error {
		bodyRan = true
		return nil
	})

	report := s.Run()
	assert.False(t, bodyRan)
	require.Equal(t, 1, report.Failed())
	assert.ErrorContains(t, report.Results[0].Err, "setup")
}

func TestTeardownAlwaysRunsAndCanFail(t *testing.T) {
	s := suite.New("teardown")

	teardownRuns := 0
	s.Teardown(func(ctx *fixture.Context) error {
		teardownRuns++
		if teardownRuns == 2 {
			return errors.New("connection not closed")
		}
		return nil
	})

	s.Add("clean", func(ctx *fixture.Context) error { return nil })
	s.Add("dirty teardown", func(ctx *fixture.Context) error { return nil })
	s.Add("body error wins", func(ctx *fixture.Context) error {
		return errors.New("body failed")
	})

	report := s.Run()
	assert.Equal(t, 3, teardownRuns)
	assert.True(t, report.Results[0].Ok())
	assert.ErrorContains(t, report.Results[1].Err, "teardown")
	assert.ErrorContains(t, report.Results[2].Err, "body failed")
}

func TestHygieneProblemsAreReportedNotFailed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := suite.New("dirty", suite.WithLogger(zap.New(core)))

	s.Add("leaves a plain property behind", func(ctx *fixture.Context) error {
		return ctx.Set("leak", 1)
	})
	s.Add("removes it again", func(ctx *fixture.Context) error {
		ctx.Delete("leak")
		return nil
	})

	report := s.Run()
	require.Len(t, report.Results, 2)
	assert.Equal(t, []string{"leak"}, report.Results[0].Leaked)
	assert.False(t, report.Results[0].Clean())
	assert.Equal(t, []string{"leak"}, report.Results[1].Missing)

	// hygiene is a warning, not a failure
	assert.True(t, report.Ok())
	assert.Equal(t, 2, logs.FilterMessage("case left the context dirty").Len())
}

func TestDeclaredPropertiesAreNotLeaks(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := suite.New("tidy", suite.WithLogger(zap.New(core)))

	s.Setup(func(set *fixture.Binder) error {
		return set.Set("token", func() any { return "t-1" })
	})
	s.Add("uses the token", func(ctx *fixture.Context) error {
		_, err := ctx.Get("token")
		return err
	})

	report := s.Run()
	assert.True(t, report.Ok())
	assert.True(t, report.Results[0].Clean())
	assert.Zero(t, logs.FilterMessage("case left the context dirty").Len())
}

func TestCustomMethodAndPreseededContext(t *testing.T) {
	ctx := fixture.New()
	require.NoError(t, ctx.Set("env", "test"))

	s := suite.New("custom",
		suite.WithContext(ctx),
		suite.WithMethod("let"),
	)
	assert.Same(t, ctx, s.Context())

	s.Setup(func(let *fixture.Binder) error {
		if let.Method() != "let" {
			return errors.New("wrong binder")
		}
		return let.Set("value", func() any { return 7 })
	})
	s.Add("sees both worlds", func(c *fixture.Context) error {
		env, err := fixture.Get[string](c, "env")
		if err != nil || env != "test" {
			return errors.New("pre-seeded property missing")
		}
		v, err := fixture.Get[int](c, "value")
		if err != nil || v != 7 {
			return errors.New("declared property missing")
		}
		return nil
	})

	report := s.Run()
	assert.True(t, report.Ok())
	assert.True(t, ctx.Has("env"))
	assert.False(t, ctx.Has("value"))
}

func TestRunSurvivesHelperClobbering(t *testing.T) {
	s := suite.New("clobber")

	s.Add("declares over the helper name", func(ctx *fixture.Context) error {
		set := ctx.Binder(fixture.DefaultMethod)
		return set.Set(fixture.DefaultMethod, "shadowed")
	})
	s.Add("still runs", func(ctx *fixture.Context) error { return nil })

	report := s.Run()
	assert.True(t, report.Ok())
	assert.Equal(t, 2, report.Passed())
}

func TestReportRender(t *testing.T) {
	s := suite.New("render")
	s.Add("ok", func(ctx *fixture.Context) error { return nil })
	s.Add("bad", func(ctx *fixture.Context) error { return errors.New("nope") })

	report := s.Run()

	var buf bytes.Buffer
	report.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "fail: nope")
	// footer cells render verbatim, not auto-uppercased
	assert.Contains(t, out, "1/2 passed")
	assert.Contains(t, out, "render")
	assert.Contains(t, out, report.RunID)
}
