// Package twilio handles inbound WhatsApp messages delivered by Twilio webhooks.
package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// HeaderSignature header carrying the request signature
const HeaderSignature = "X-Twilio-Signature"

// ContentType of TwiML responses
const ContentType = "text/xml; charset=utf-8"

// ErrMissingMessageSid the form is not a Twilio message delivery
var ErrMissingMessageSid = errors.New("twilio: MessageSid is missing")

// InboundMessage is one message delivery. Params holds every form field,
// including the named ones.
type InboundMessage struct {
	MessageSid  string
	From        string
	To          string
	Body        string
	ProfileName string
	Params      map[string]string
}

// ParseForm extracts an InboundMessage from webhook form values
func ParseForm(form url.Values) (*InboundMessage, error) {
	msg := &InboundMessage{
		MessageSid:  strings.TrimSpace(form.Get("MessageSid")),
		From:        form.Get("From"),
		To:          form.Get("To"),
		Body:        form.Get("Body"),
		ProfileName: form.Get("ProfileName"),
		Params:      make(map[string]string, len(form)),
	}
	for key := range form {
		msg.Params[key] = form.Get(key)
	}
	if msg.MessageSid == "" {
		return nil, ErrMissingMessageSid
	}
	return msg, nil
}

// PhoneNumber strips the channel prefix from a Twilio address ("whatsapp:+33..." -> "+33...")
func PhoneNumber(address string) string {
	if i := strings.Index(address, ":"); i >= 0 {
		return address[i+1:]
	}
	return address
}

// Sign computes the Twilio request signature: base64 HMAC-SHA1 of the full
// URL followed by each POST parameter name and value, sorted by name
func Sign(authToken, fullURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		for _, v := range params[k] {
			b.WriteString(k)
			b.WriteString(v)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the X-Twilio-Signature header value
func VerifySignature(authToken, fullURL string, params url.Values, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(authToken, fullURL, params)), []byte(signature))
}

type twimlResponse struct {
	XMLName xml.Name      `xml:"Response"`
	Message *twimlMessage `xml:"Message,omitempty"`
}

type twimlMessage struct {
	Body string `xml:",chardata"`
}

// TwiML renders a messaging response. An empty reply yields an empty <Response/>.
func TwiML(reply string) []byte {
	resp := twimlResponse{}
	if reply != "" {
		resp.Message = &twimlMessage{Body: reply}
	}
	out, err := xml.Marshal(resp)
	if err != nil {
		return []byte(xml.Header + "<Response></Response>")
	}
	return append([]byte(xml.Header), out...)
}
