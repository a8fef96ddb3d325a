// Package getbible reads translations from the getBible v2 JSON API.
package getbible

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-resty/resty/v2"

	"bible-scraper/canon"
	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/noise"
)

const (
	Name               = "getbible"
	DefaultTranslation = "kjv"
	DefaultPolicy      = merge.Discard
)

//go:embed books.yaml
var booksYAML []byte

// Books maps the API's book numbers (keys) to codes.
var Books = canon.MustLoadTable(Name, booksYAML)

// Rules is empty: the API serves clean text.
func Rules() []noise.Rule { return nil }

// Requester hands out paced requests. *utils.HTTPFetcher implements it.
type Requester interface {
	Request(ctx context.Context) (*resty.Request, error)
}

type Translation struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"translation"`
	Language     string `json:"language"`
}

type bookIndex struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type bookContent struct {
	Name     string `json:"name"`
	Chapters []struct {
		Chapter int `json:"chapter"`
		Verses  []struct {
			Verse int    `json:"verse"`
			Text  string `json:"text"`
		} `json:"verses"`
	} `json:"chapters"`
}

type GetBible struct {
	client      Requester
	translation string
	baseURL     string

	mu sync.Mutex
	// the book whose chapters are being served
	code     string
	chapters map[string][]model.Fragment
}

func New(client Requester, translation string) *GetBible {
	if translation == "" {
		translation = DefaultTranslation
	}
	return &GetBible{client: client, translation: translation, baseURL: "https://api.getbible.net/v2"}
}

func (g *GetBible) Name() string { return Name }

// Unit is book: the API returns a whole book per request.
func (g *GetBible) Unit() model.Unit { return model.UnitBook }

func (g *GetBible) get(ctx context.Context, url string, out any) error {
	req, err := g.client.Request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Get(url)
	if err != nil {
		return &model.TransientFetchError{URL: url, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &model.TransientFetchError{URL: url, Status: resp.StatusCode()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s: %v", url, err)
	}
	return nil
}

// Translations lists the translations the API offers, by abbreviation.
func (g *GetBible) Translations(ctx context.Context) ([]Translation, error) {
	var raw map[string]Translation
	if err := g.get(ctx, g.baseURL+"/translations.json", &raw); err != nil {
		return nil, err
	}
	out := make([]Translation, 0, len(raw))
	for abbr, t := range raw {
		if t.Abbreviation == "" {
			t.Abbreviation = abbr
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out, nil
}

// Books lists the translation's books in API number order. Numbers missing
// from the table keep the API's name as their code.
func (g *GetBible) Books(ctx context.Context) ([]model.BookRef, error) {
	var index map[string]bookIndex
	if err := g.get(ctx, fmt.Sprintf("%s/%s/books.json", g.baseURL, g.translation), &index); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	refs := make([]model.BookRef, 0, len(keys))
	for _, k := range keys {
		b := index[k]
		code := b.Name
		if e, ok := Books.Lookup(k); ok && e.Key == k {
			code = e.Code
		}
		refs = append(refs, model.BookRef{Code: code, Title: b.Name, Slug: k, URL: b.URL})
	}
	return refs, nil
}

// Chapters downloads the whole book and keeps it for the Chapter calls that
// follow.
func (g *GetBible) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	var content bookContent
	if err := g.get(ctx, book.URL, &content); err != nil {
		return book, nil, err
	}
	if book.Title == "" {
		book.Title = content.Name
	}

	chapters := make(map[string][]model.Fragment, len(content.Chapters))
	refs := make([]model.ChapterRef, 0, len(content.Chapters))
	for _, ch := range content.Chapters {
		number := strconv.Itoa(ch.Chapter)
		frags := make([]model.Fragment, 0, len(ch.Verses))
		for i, v := range ch.Verses {
			frags = append(frags, model.Fragment{Verse: strconv.Itoa(v.Verse), Text: v.Text, Order: i})
		}
		chapters[number] = frags
		refs = append(refs, model.ChapterRef{Number: number, URL: book.URL})
	}

	g.mu.Lock()
	g.code, g.chapters = book.Code, chapters
	g.mu.Unlock()
	return book, refs, nil
}

func (g *GetBible) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.code != book.Code {
		return nil, fmt.Errorf("%s: book not loaded", book.Code)
	}
	frags, ok := g.chapters[chapter.Number]
	if !ok {
		return nil, fmt.Errorf("%s %s: no such chapter", book.Code, chapter.Number)
	}
	out := make([]model.Fragment, len(frags))
	copy(out, frags)
	return out, nil
}
