package twilio

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForm(t *testing.T) {
	form := url.Values{
		"MessageSid":  {"SM123"},
		"From":        {"whatsapp:+33600000000"},
		"To":          {"whatsapp:+14155238886"},
		"Body":        {"Hi"},
		"ProfileName": {"Ann"},
		"NumMedia":    {"0"},
	}

	msg, err := ParseForm(form)
	require.NoError(t, err)
	assert.Equal(t, "SM123", msg.MessageSid)
	assert.Equal(t, "Ann", msg.ProfileName)
	assert.Equal(t, "0", msg.Params["NumMedia"])
	assert.Equal(t, "Hi", msg.Params["Body"])
	assert.Equal(t, "+33600000000", PhoneNumber(msg.From))

	_, err = ParseForm(url.Values{"Body": {"Hi"}})
	assert.ErrorIs(t, err, ErrMissingMessageSid)
}

func TestSignature(t *testing.T) {
	// Параметры примера из документации Twilio, подпись пересчитана независимо
	params := url.Values{
		"CallSid": {"CA1234567890ABCDE"},
		"Caller":  {"+12349013030"},
		"Digits":  {"1234"},
		"From":    {"+12349013030"},
		"To":      {"+18005551212"},
	}
	fullURL := "https://mycompany.com/myapp.php?foo=1&bar=2"

	sig := Sign("12345", fullURL, params)
	assert.Equal(t, "0/KCTR6DLpKmkAf8muzZqo1nDgQ=", sig)
	assert.True(t, VerifySignature("12345", fullURL, params, sig))
	assert.False(t, VerifySignature("12345", fullURL+"&x=1", params, sig))
	assert.False(t, VerifySignature("12345", fullURL, params, ""))
}

func TestTwiML(t *testing.T) {
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+`<Response><Message>See you &amp; bye</Message></Response>`,
		string(TwiML("See you & bye")))
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+`<Response></Response>`,
		string(TwiML("")))
}
