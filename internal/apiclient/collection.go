package apiclient

import (
	"bytes"
	"encoding/json"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/taxonomy"
)

// Collection - список из ответа сервера. Сервер может вернуть как массив,
// так и объект {"results": [...], "count": n}; оба приводятся к одному виду.
type Collection[T any] struct {
	Items []T
	Count int
}

func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		c.Items, c.Count = []T{}, 0
		return nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		c.Items, c.Count = nonNil(items), len(items)
		return nil
	}
	var envelope struct {
		Results []T `json:"results"`
		Count   *int `json:"count"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	c.Items = nonNil(envelope.Results)
	c.Count = len(c.Items)
	if envelope.Count != nil {
		c.Count = *envelope.Count
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// StatusOption - элемент словаря статусов. Сервер может называть поля
// value/label или id/name.
type StatusOption struct {
	Value string
	Label string
	Tone  taxonomy.Tone
}

func (o *StatusOption) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value json.RawMessage `json:"value"`
		ID    json.RawMessage `json:"id"`
		Label string          `json:"label"`
		Name  string          `json:"name"`
		Tone  taxonomy.Tone   `json:"tone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Value = scalar(raw.Value)
	if o.Value == "" {
		o.Value = scalar(raw.ID)
	}
	o.Label = raw.Label
	if o.Label == "" {
		o.Label = raw.Name
	}
	o.Tone = raw.Tone
	return nil
}

// Badge приводит элемент к бейджу таксономии.
func (o StatusOption) Badge() taxonomy.Badge {
	return taxonomy.Badge{Value: o.Value, Label: o.Label, Tone: o.Tone}
}

func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
