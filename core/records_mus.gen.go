// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var OutcomeMUS = outcomeMUS{}

type outcomeMUS struct{}

func (s outcomeMUS) Marshal(v Outcome, bs []byte) (n int) {
	n = ord.String.Marshal(v.PromptID, bs)
	n += ord.String.Marshal(v.Service, bs[n:])
	n += ord.String.Marshal(v.Language, bs[n:])
	n += ord.String.Marshal(v.Prompt, bs[n:])
	n += ord.String.Marshal(v.Response, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
	n += ord.Bool.Marshal(v.Success, bs[n:])
	return n + ord.String.Marshal(v.Error, bs[n:])
}

func (s outcomeMUS) Unmarshal(bs []byte) (v Outcome, n int, err error) {
	v.PromptID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Service, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Language, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Prompt, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Response, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Success, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s outcomeMUS) Size(v Outcome) (size int) {
	size = ord.String.Size(v.PromptID)
	size += ord.String.Size(v.Service)
	size += ord.String.Size(v.Language)
	size += ord.String.Size(v.Prompt)
	size += ord.String.Size(v.Response)
	size += raw.TimeUnixMicro.Size(v.Timestamp)
	size += ord.Bool.Size(v.Success)
	return size + ord.String.Size(v.Error)
}

func (s outcomeMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}
