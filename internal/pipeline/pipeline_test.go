package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/logging"
	"github.com/agentstation/dicomstd/pkg/modules"
)

func patient() *modules.Module {
	return &modules.Module{
		ID: "patient",
		Attributes: []*modules.Attribute{
			{Name: "Patient's Name", Tag: "(0010,0010)", Type: "2",
				Description: `See <a href="#sect_10.2">Section 10.2</a>.`},
			{Name: "Other Patient IDs Sequence", Tag: "(0010,1002)", Type: "3"},
			{Name: ">Patient ID", Tag: ">(0010,0020)", Type: "1"},
		},
	}
}

func broken(id string) *modules.Module {
	return &modules.Module{
		ID:         id,
		Attributes: []*modules.Attribute{{Name: "Nothing", Tag: "  "}},
	}
}

func ctx() context.Context {
	return logging.WithLogger(context.Background(), logging.NewNopLogger())
}

func TestProcess(t *testing.T) {
	out, err := Process(ctx(), &appcontext.Mock{}, []*modules.Module{patient()}, hierarchy.BatchOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	attrs := out[0].Attributes
	assert.Equal(t, "patient:00100010", attrs[0].ID)
	assert.Equal(t, "patient:00101002:00100020", attrs[2].ID)
	assert.Equal(t, "Patient ID", attrs[2].Name)

	require.Len(t, attrs[0].ExternalReferences, 1)
	assert.Equal(t,
		"http://dicom.nema.org/medical/dicom/current/output/html/part03.html#sect_10.2",
		attrs[0].ExternalReferences[0].SourceURL)
	assert.NotNil(t, attrs[1].ExternalReferences)
	assert.Empty(t, attrs[1].ExternalReferences)
}

func TestProcessFailFast(t *testing.T) {
	out, err := Process(ctx(), &appcontext.Mock{}, []*modules.Module{patient(), broken("bad")}, hierarchy.BatchOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsMalformedTag(err))
	assert.Empty(t, out)
}

func TestProcessKeepGoing(t *testing.T) {
	out, err := Process(ctx(), &appcontext.Mock{}, []*modules.Module{broken("bad"), patient()}, hierarchy.BatchOptions{KeepGoing: true})
	require.Error(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "patient", out[0].ID)

	var batchErr *errors.BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Failures, 1)
	assert.Equal(t, "bad", batchErr.Failures[0].Module)
}

func TestReferencesCanceled(t *testing.T) {
	c, cancel := context.WithCancel(ctx())
	cancel()

	_, err := References(c, (&appcontext.Mock{}).Recorder(), []*modules.Module{patient()}, false)
	assert.ErrorIs(t, err, errors.ErrCanceled)
}

func TestReferencesNilModule(t *testing.T) {
	out, err := References(ctx(), (&appcontext.Mock{}).Recorder(), []*modules.Module{nil, patient()}, true)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Len(t, out, 1)
}
