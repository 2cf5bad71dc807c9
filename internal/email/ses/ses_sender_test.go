package ses

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gstbill/internal/port"
)

func TestReportReadyBodies(t *testing.T) {
	msg := port.ReportReadyMessage{
		ToName:       "Asha",
		BusinessName: "Acme & Sons",
		Period:       "2024-04-01 to 2024-04-30",
		Format:       "csv",
		DownloadURL:  "https://bucket.s3.amazonaws.com/r.csv?X-Amz-Signature=abc&x=1",
	}

	text := BuildReportReadyText(msg)
	assert.Contains(t, text, "Hi Asha")
	assert.Contains(t, text, msg.DownloadURL)

	page := buildReportReadyHTML(msg)
	assert.Contains(t, page, "Acme &amp; Sons")
	assert.Contains(t, page, "X-Amz-Signature=abc&amp;x=1")
}
