package golang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPascalCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello_world", "HelloWorld"},
		{"hello-world", "HelloWorld"},
		{"hello world", "HelloWorld"},
		{"helloWorld", "HelloWorld"},
		{"HelloWorld", "HelloWorld"},
		{"api_key", "APIKey"},
		{"user_id", "UserID"},
		{"vpc_id", "VPCID"},
		{"subnet_cidr", "SubnetCIDR"},
		{"iam_role_arn", "IAMRoleARN"},
		{"sku_name", "SKUName"},
		{"http_url", "HTTPURL"},
		{"uuid", "UUID"},
		{"", ""},
		{"a", "A"},
		{"abc", "Abc"},
		{"ABC", "Abc"},
		{"diskId", "DiskID"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, PascalCase(tt.input))
		})
	}
}

func TestCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello_world", "helloWorld"},
		{"hello-world", "helloWorld"},
		{"HelloWorld", "helloWorld"},
		{"api_key", "apiKey"},
		{"vpc_id", "vpcID"},
		{"", ""},
		{"a", "a"},
		{"A", "a"},
		{"DiskId", "diskID"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, CamelCase(tt.input))
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HelloWorld", "hello_world"},
		{"helloWorld", "hello_world"},
		{"hello_world", "hello_world"},
		{"Provider.Example", "provider_example"},
		{"2023-01-01", "2023_01_01"},
		{"userID", "user_id"},
		{"", ""},
		{"ABC", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, SnakeCase(tt.input))
		})
	}
}

func TestToGoIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello_world", "HelloWorld"},
		{"123abc", "X123abc"},
		{"1", "X1"},
		{"", "X"},
		{"api_key", "APIKey"},
		{"user-name", "UserName"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, ToGoIdentifier(tt.input))
		})
	}
}

func TestResourceNaming(t *testing.T) {
	require.Equal(t, "Widgets", ResourceName("Provider.Example/widgets"))
	require.Equal(t, "VirtualMachines", ResourceName("Provider.Compute/virtualMachines"))
	require.Equal(t, "Widgets", ResourceName("widgets"))

	require.Equal(t, "WidgetsProps", PropsName("Provider.Example/widgets"))
	require.Equal(t, "widgets_construct.go", ConstructFile("Provider.Example/widgets"))
	require.Equal(t, "virtual_machines_construct.go", ConstructFile("Provider.Compute/virtualMachines"))
}

func TestPackageName(t *testing.T) {
	require.Equal(t, "example", PackageName("Provider.Example"))
	require.Equal(t, "compute", PackageName("My.Cloud.Compute"))
	require.Equal(t, "storage", PackageName("storage"))
}

func TestOutputDirs(t *testing.T) {
	require.Equal(t, "provider_example", ProviderDir("Provider.Example"))
	require.Equal(t, "2023_01_01", VersionDir("2023-01-01"))
	require.Equal(t, "v1", VersionDir("v1"))
}

func TestEscapeKeyword(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"type", "type_"},
		{"Type", "Type_"},
		{"range", "range_"},
		{"name", "name"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, EscapeKeyword(tt.input))
		})
	}
}

func TestSetAdditionalInitialisms(t *testing.T) {
	SetAdditionalInitialisms([]string{"xyz"})
	require.Equal(t, "XYZData", PascalCase("xyz_data"))
}
