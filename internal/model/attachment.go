package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AttachmentItem references a user-picked file attached to a task.
// FileURI is an opaque locator: either the picker's original URI or a
// path into app-private storage after the file has been copied in.
type AttachmentItem struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"taskId"`
	FileURI   string `json:"fileUri"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

// AttachmentList is stored inside the task row as a single JSON text
// column. An empty list round-trips as "[]", never as NULL.
type AttachmentList []AttachmentItem

func (l AttachmentList) Value() (driver.Value, error) {
	if l == nil {
		l = AttachmentList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	return string(data), nil
}

func (l *AttachmentList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = AttachmentList{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported attachments column type %T", src)
	}
	if len(data) == 0 {
		*l = AttachmentList{}
		return nil
	}
	out := AttachmentList{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decode attachments: %w", err)
	}
	if out == nil {
		out = AttachmentList{}
	}
	*l = out
	return nil
}
