package woocommerce

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Order полезная нагрузка вебхука заказа WooCommerce (поля, которые нужны сервису)
type Order struct {
	ID           int64      `json:"id"`
	Status       string     `json:"status"`
	Currency     string     `json:"currency"`
	Billing      Billing    `json:"billing"`
	LineItems    []LineItem `json:"line_items"`
	CustomerNote string     `json:"customer_note"`
}

// Billing платёжные данные покупателя
type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName имя и фамилия через пробел
func (b Billing) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// LineItem позиция заказа; одна позиция соответствует одному бронированию
type LineItem struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"product_id"`
	SKU       string     `json:"sku"`
	Quantity  int        `json:"quantity"`
	MetaData  []MetaData `json:"meta_data"`
}

// MetaData пара ключ-значение; значение может быть строкой, числом или объектом
type MetaData struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// String возвращает значение как строку; объекты и массивы дают пустую строку
func (m MetaData) String() string {
	raw := strings.TrimSpace(string(m.Value))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Value, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(m.Value, &n); err == nil {
		return n.String()
	}
	return ""
}

// Meta возвращает первое непустое значение по одному из ключей
func (li LineItem) Meta(keys ...string) string {
	for _, key := range keys {
		for _, m := range li.MetaData {
			if strings.EqualFold(m.Key, key) {
				if v := m.String(); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// ActivityRef ссылка на активность: числовой id или slug.
// SKU имеет приоритет над мета-полями activity и activity_id.
func (li LineItem) ActivityRef() (id int64, slug string) {
	for _, ref := range []string{li.SKU, li.Meta("activity", "activity_id")} {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if n, err := strconv.ParseInt(ref, 10, 64); err == nil {
			return n, ""
		}
		return 0, ref
	}
	return 0, ""
}

// BookingDate дата из мета-полей booking_date или date
func (li LineItem) BookingDate() string {
	return li.Meta("booking_date", "date")
}

// BookingTime время из мета-полей booking_time или time
func (li LineItem) BookingTime() string {
	return li.Meta("booking_time", "time")
}
