// Package toolgate is the embeddable client for in-process tool
// resolution. Assessment delivery hands it the layered intent documents
// (student profile, district policy, session administration, item rules)
// and gets back the allowed accessibility tool set with per-feature
// provenance. No network or storage is involved.
//
// Usage:
//
//	tg, err := toolgate.New(toolgate.WithDistrictPolicy("district.yaml"))
//	result, err := tg.Resolve(assessment, "item-042")
//	for _, tool := range result.Tools {
//	    render(tool.ID, tool.AutoActivate)
//	}
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/testbridge/toolgate/sdk/go/toolgate.
package toolgate
