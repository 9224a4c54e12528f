package feishu

import (
	"fmt"
	"net/url"
	"strings"
)

// TableRef identifies where records live: the base (app_token) and the data
// table inside it.
type TableRef struct {
	AppToken string
	TableID  string
}

// ParseTableURL derives a TableRef from a Bitable URL as copied from the
// browser. Supported shapes:
//
//	https://example.feishu.cn/base/VkbvbJGl0aSYGtsT6CQcTGcPnMd?table=tblNYzJrWFGN4OWI
//	https://example.feishu.cn/wiki/I1iZwpcLli7wQtkGBywcYEldnmb?table=tblZCp9LxuJk7Z1H&view=vewHOQVag0
//
// The path segment after /base/ or /wiki/ yields the app_token; the table
// query parameter yields the table id. Both are mandatory.
func ParseTableURL(raw string) (TableRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return TableRef{}, fmt.Errorf("parsing table url: %w", err)
	}

	var appToken string
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	for i, seg := range segments {
		if (seg == "base" || seg == "wiki") && i+1 < len(segments) {
			appToken = segments[i+1]
			break
		}
	}
	if appToken == "" {
		return TableRef{}, fmt.Errorf("parsing table url: no app_token found, the URL must contain a /base/ or /wiki/ path segment")
	}

	tableID := u.Query().Get("table")
	if tableID == "" {
		return TableRef{}, fmt.Errorf("parsing table url: no table_id found, the URL must contain a table= query parameter")
	}

	return TableRef{AppToken: appToken, TableID: tableID}, nil
}
