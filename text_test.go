// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStringBytes_PDFDocEncoding(t *testing.T) {
	o := &Object{}
	classifyStringBytes(o, []byte("Hi"), false)
	assert.Equal(t, KindText, o.Kind)
	assert.Equal(t, EncodingPDFDoc, o.TextEncoding)
	assert.Equal(t, "Hi", o.Text)
}

func TestClassifyStringBytes_HexBecomesBytes(t *testing.T) {
	o := &Object{}
	classifyStringBytes(o, []byte{0xDE, 0xAD}, true)
	assert.Equal(t, KindBytes, o.Kind)
	assert.Equal(t, []byte{0xDE, 0xAD}, o.Bytes)
}

func TestClassifyStringBytes_UTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	o := &Object{}
	classifyStringBytes(o, raw, false)
	assert.Equal(t, KindText, o.Kind)
	assert.Equal(t, EncodingUTF8, o.TextEncoding)
	assert.Equal(t, "hello", o.Text)
}

func TestClassifyStringBytes_UTF16BEBOM(t *testing.T) {
	raw := []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'}
	o := &Object{}
	classifyStringBytes(o, raw, false)
	assert.Equal(t, KindText, o.Kind)
	assert.Equal(t, EncodingUTF16BE, o.TextEncoding)
	assert.Equal(t, "Hi", o.Text)
}

func TestClassifyStringBytes_Date(t *testing.T) {
	o := &Object{}
	classifyStringBytes(o, []byte("D:19990101120000-05'00'"), false)
	require.Equal(t, KindDate, o.Kind)
	require.True(t, o.DateValid)
	assert.Equal(t, 1999, o.Date.Year())
	assert.Equal(t, time.Month(1), o.Date.Month())
	assert.Equal(t, 1, o.Date.Day())
	assert.Equal(t, 12, o.Date.Hour())
	_, offset := o.Date.Zone()
	assert.Equal(t, -5*3600, offset)
}

func TestClassifyStringBytes_DateDefaultsMissingFields(t *testing.T) {
	o := &Object{}
	classifyStringBytes(o, []byte("D:2020"), false)
	require.Equal(t, KindDate, o.Kind)
	assert.Equal(t, 2020, o.Date.Year())
	assert.Equal(t, time.Month(1), o.Date.Month())
	assert.Equal(t, 1, o.Date.Day())
}

func TestClassifyStringBytes_DateLikePrefixButNoMatchFallsBackToText(t *testing.T) {
	o := &Object{}
	classifyStringBytes(o, []byte("D:not-a-date"), false)
	assert.Equal(t, KindText, o.Kind)
}

func TestPDFDocDecodeBytes(t *testing.T) {
	s := pdfDocDecodeBytes([]byte{0x80, 'A'})
	assert.Equal(t, "•A", s)
}
