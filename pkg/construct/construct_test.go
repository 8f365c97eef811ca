package construct

import (
	"errors"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/quarry/pkg/validate"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

type widgetProps struct {
	Name string  `json:"name"`
	Size int64   `json:"size"`
	Tier *string `json:"tier,omitempty"`
}

func TestToBag(t *testing.T) {
	tier := "basic"
	bag, err := ToBag(widgetProps{Name: "w", Size: 3, Tier: &tier})
	require.NoError(t, err)

	require.Equal(t, "w", bag["name"])
	require.Equal(t, float64(3), bag["size"])
	require.Equal(t, "basic", bag["tier"])
}

func TestToBagOmitsEmptyOptionals(t *testing.T) {
	bag, err := ToBag(widgetProps{Name: "w", Size: 3})
	require.NoError(t, err)

	_, present := bag["tier"]
	require.False(t, present)
}

func TestMarshalDocumentIsDeterministic(t *testing.T) {
	doc := Document{
		Type:       "Provider.Example/widgets",
		APIVersion: "2023-01-01",
		Properties: widgetProps{Name: "w", Size: 3},
	}

	first, err := MarshalDocument(doc)
	require.NoError(t, err)
	second, err := MarshalDocument(doc)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Contains(t, string(first), `"type": "Provider.Example/widgets"`)
	require.Contains(t, string(first), `"apiVersion": "2023-01-01"`)
	snaps.MatchSnapshot(t, string(first))
}

func TestMarshalDocumentOmitsEmptyProperties(t *testing.T) {
	out, err := MarshalDocument(Document{Type: "P.X/a", APIVersion: "v1"})
	require.NoError(t, err)
	require.NotContains(t, string(out), "properties")
}

func TestPropsValidationError(t *testing.T) {
	issues := validate.Issues{
		{Path: "/name", Code: validate.CodeRequired, Message: "required property \"name\" is missing"},
	}
	err := &PropsValidationError{ResourceType: "Provider.Example/widgets", Issues: issues}

	require.Contains(t, err.Error(), "Provider.Example/widgets")
	require.Contains(t, err.Error(), "required at /name")

	var target validate.Issues
	require.True(t, errors.As(err, &target))
	require.Len(t, target, 1)
}
