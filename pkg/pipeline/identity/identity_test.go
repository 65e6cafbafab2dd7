package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stepparams/pkg/pipeline/identity"
	"github.com/askiada/go-stepparams/pkg/pipeline/model"
)

const document = `{
	"steps": {
		"a1": {"file_path": "extract.ipynb"},
		"b2": {"file_path": "shared.py"},
		"c3": {"file_path": "shared.py"},
		"d4": {}
	}
}`

func TestResolve(t *testing.T) {
	t.Parallel()

	p, err := model.FromDocument([]byte(document))
	require.NoError(t, err)

	tcs := map[string]struct {
		ec       identity.ExecContext
		expected string
		err      error
	}{
		"by uuid":                {ec: identity.ExecContext{StepUUID: "d4"}, expected: "d4"},
		"uuid wins over file":    {ec: identity.ExecContext{StepUUID: "b2", FilePath: "extract.ipynb"}, expected: "b2"},
		"by file":                {ec: identity.ExecContext{FilePath: "extract.ipynb"}, expected: "a1"},
		"empty context":          {ec: identity.ExecContext{}, err: identity.ErrContextMissing},
		"unknown uuid":           {ec: identity.ExecContext{StepUUID: "zz"}, err: identity.ErrUnknownStep},
		"unknown file":           {ec: identity.ExecContext{FilePath: "other.R"}, err: identity.ErrNoStepForFile},
		"file used by two steps": {ec: identity.ExecContext{FilePath: "shared.py"}, err: identity.ErrAmbiguousFile},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := identity.Default.Resolve(tc.ec, p)
			if tc.err != nil {
				var identityErr *identity.StepIdentityError
				require.ErrorAs(t, err, &identityErr)
				require.ErrorIs(t, err, tc.err)
				assert.Empty(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestResolveUnknownUUIDKeepsStepNotFound(t *testing.T) {
	t.Parallel()

	p, err := model.FromDocument([]byte(document))
	require.NoError(t, err)

	_, err = identity.Resolve(identity.ExecContext{StepUUID: "zz"}, p)
	require.ErrorIs(t, err, identity.ErrUnknownStep)

	var notFound *model.StepNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "zz", notFound.UUID)
}

func TestResolveNilPipeline(t *testing.T) {
	t.Parallel()

	_, err := identity.Resolve(identity.ExecContext{StepUUID: "a1"}, nil)

	var identityErr *identity.StepIdentityError
	require.ErrorAs(t, err, &identityErr)
}

func TestResolverFunc(t *testing.T) {
	t.Parallel()

	var resolver identity.Resolver = identity.ResolverFunc(func(ec identity.ExecContext, _ *model.Pipeline) (string, error) {
		return "fixed-" + ec.StepUUID, nil
	})

	got, err := resolver.Resolve(identity.ExecContext{StepUUID: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed-x", got)
}

func TestStepIdentityErrorMessage(t *testing.T) {
	t.Parallel()

	err := &identity.StepIdentityError{Reason: "empty execution context", Err: identity.ErrContextMissing}
	assert.EqualError(t, err, "unable to resolve current step: empty execution context: execution context names no step")
}
