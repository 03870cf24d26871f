package api

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse html document")
	}

	return doc, nil
}

func metaContent(doc *goquery.Document, name string) (string, error) {
	return attribute(doc.Find("meta[name="+name+"]"), "content", "meta "+name)
}

func inputValue(doc *goquery.Document, name string) (string, error) {
	return attribute(doc.Find("input[name="+name+"]"), "value", "input "+name)
}

func formAction(doc *goquery.Document, id string) (string, error) {
	return attribute(doc.Find("form#"+id), "action", "form "+id)
}

func attribute(selection *goquery.Selection, attr, what string) (string, error) {
	value, ok := selection.First().Attr(attr)
	if !ok {
		return "", errors.Wrap(ErrElementNotFound, what)
	}

	return value, nil
}

// loginForm holds the hidden fields of an identity provider form.
type loginForm struct {
	action     string
	csrf       string
	relayState string
	hmac       string
}

func parseLoginForm(body []byte, formID string) (*loginForm, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	form := &loginForm{}

	if form.csrf, err = inputValue(doc, "_csrf"); err != nil {
		return nil, err
	}

	if form.relayState, err = inputValue(doc, "relayState"); err != nil {
		return nil, err
	}

	if form.hmac, err = inputValue(doc, "hmac"); err != nil {
		return nil, err
	}

	if form.action, err = formAction(doc, formID); err != nil {
		return nil, err
	}

	return form, nil
}
