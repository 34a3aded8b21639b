package functions_test

import (
	"testing"

	"github.com/apimlint/apimlint/document"
	"github.com/apimlint/apimlint/functions"
	"github.com/apimlint/apimlint/linter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationNameChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   linter.Func
		good []string
		bad  []string
	}{
		{name: "get", fn: functions.GetInOperationName, good: []string{"Users_Get", "Users_List", "Users_ListByResourceGroup"}, bad: []string{"Users_Delete", "Users", "Users_Fetch"}},
		{name: "put", fn: functions.PutInOperationName, good: []string{"Users_Create", "Users_CreateOrUpdate"}, bad: []string{"Users_Put", "Users_Update"}},
		{name: "patch", fn: functions.PatchInOperationName, good: []string{"Users_Update"}, bad: []string{"Users_Patch"}},
		{name: "delete", fn: functions.DeleteInOperationName, good: []string{"Users_Delete"}, bad: []string{"Users_Remove"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mctx := matchAt("paths", "/users", tt.name, "operationId")
			for _, id := range tt.good {
				assert.Empty(t, tt.fn(id, nil, mctx), id)
			}
			for _, id := range tt.bad {
				findings := tt.fn(id, nil, mctx)
				require.Len(t, findings, 1, id)
				assert.Equal(t, mctx.Path, findings[0].Path)
			}
			assert.Empty(t, tt.fn("", nil, mctx), "empty IDs are left to other rules")
		})
	}
}

func TestGetInOperationName_Message(t *testing.T) {
	t.Parallel()

	findings := functions.GetInOperationName("Users_Delete", nil, matchAt("paths", "/users", "get", "operationId"))
	require.Len(t, findings, 1)
	assert.Equal(t, "'GET' operation 'Users_Delete' should use method name 'Get' or method name start with 'List'", findings[0].Message)
}

func TestOperationIDSingleUnderscore(t *testing.T) {
	t.Parallel()

	assert.Empty(t, functions.OperationIDSingleUnderscore("Users_Get", nil, nil))
	assert.Empty(t, functions.OperationIDSingleUnderscore("GetUsers", nil, nil))

	findings := functions.OperationIDSingleUnderscore("Users_Get_All", nil, matchAt("paths", "/users", "get", "operationId"))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "Found 2 in 'Users_Get_All'")
}

func TestOperationIDNounVerb(t *testing.T) {
	t.Parallel()

	assert.Empty(t, functions.OperationIDNounVerb("Users_Get", nil, nil))
	assert.Empty(t, functions.OperationIDNounVerb("Users_Get_All", nil, nil), "multiple underscores are reported elsewhere")

	findings := functions.OperationIDNounVerb("Users_GetUsers", nil, nil)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "'Users'")
}

func lroOperation(codes ...string) map[string]any {
	responses := map[string]any{"default": map[string]any{"description": "error"}}
	for _, code := range codes {
		responses[code] = map[string]any{"description": "ok"}
	}
	return map[string]any{
		"operationId":                  "Widgets_CreateOrUpdate",
		"x-ms-long-running-operation": true,
		"responses":                    responses,
	}
}

func TestLongRunningResponseStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		op     map[string]any
		want   int
	}{
		{name: "put with 200 and 201", method: "put", op: lroOperation("200", "201"), want: 0},
		{name: "put with 202", method: "put", op: lroOperation("202"), want: 1},
		{name: "put without success codes", method: "put", op: lroOperation(), want: 1},
		{name: "delete with 202 and 204", method: "delete", op: lroOperation("202", "204"), want: 0},
		{name: "post with 202", method: "post", op: lroOperation("202"), want: 0},
		{name: "patch with 201", method: "patch", op: lroOperation("200", "201"), want: 1},
		{name: "get is not checked", method: "get", op: lroOperation("202"), want: 0},
		{name: "not long running", method: "put", op: map[string]any{"responses": map[string]any{"202": map[string]any{}}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mctx := matchAt("paths", "/widgets/{name}", tt.method)
			findings := functions.LongRunningResponseStatusCode(tt.op, nil, mctx)
			require.Len(t, findings, tt.want)
			if tt.want > 0 {
				assert.Equal(t, document.Path{"paths", "/widgets/{name}", tt.method, "responses"}, findings[0].Path)
			}
		})
	}
}

func TestLongRunningResponseStatusCode_Message(t *testing.T) {
	t.Parallel()

	findings := functions.LongRunningResponseStatusCode(lroOperation("202"), nil, matchAt("paths", "/widgets", "put"))
	require.Len(t, findings, 1)
	assert.Equal(t, "A 'PUT' operation 'Widgets_CreateOrUpdate' with x-ms-long-running-operation extension must have a valid terminal success status code 200 or 201.", findings[0].Message)
}

func TestSummaryAndDescriptionMustNotBeSame(t *testing.T) {
	t.Parallel()

	mctx := matchAt("paths", "/users", "get")
	assert.Empty(t, functions.SummaryAndDescriptionMustNotBeSame(map[string]any{"summary": "List", "description": "Lists users."}, nil, mctx))
	assert.Empty(t, functions.SummaryAndDescriptionMustNotBeSame(map[string]any{"summary": "", "description": ""}, nil, mctx))
	assert.Empty(t, functions.SummaryAndDescriptionMustNotBeSame(map[string]any{"summary": "List"}, nil, mctx))

	findings := functions.SummaryAndDescriptionMustNotBeSame(map[string]any{"summary": "List users", "description": "List users "}, nil, mctx)
	require.Len(t, findings, 1)
	assert.Empty(t, findings[0].Message, "the rule description is reported")
	assert.Equal(t, document.Path{"paths", "/users", "get", "summary"}, findings[0].Path)
}
