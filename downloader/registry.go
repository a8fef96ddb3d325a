package downloader

import (
	"fmt"

	"bible-scraper/config"
	"bible-scraper/downloader/biblegateway"
	"bible-scraper/downloader/bibliacatolica"
	"bible-scraper/downloader/getbible"
	"bible-scraper/downloader/gratis"
	"bible-scraper/downloader/stepbible"
	"bible-scraper/downloader/vatican"
	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/noise"
	"bible-scraper/utils"
)

// Names lists the sources New can build.
var Names = []string{
	biblegateway.Name,
	bibliacatolica.Name,
	getbible.Name,
	gratis.Name,
	stepbible.Name,
	vatican.Name,
}

// Fetchers are shared by every source of a run so that one rate limit
// covers them all. Browser is only needed by stepbible.
type Fetchers struct {
	HTTP    *utils.HTTPFetcher
	Browser *utils.BrowserFetcher
}

// New builds the named source with its default rules and policy, overridden
// by the source's section in cfg.
func New(name string, cfg *config.Config, fetchers Fetchers) (model.Source, Pipeline, error) {
	sc := cfg.Source(name)
	if name != stepbible.Name && fetchers.HTTP == nil {
		return nil, Pipeline{}, fmt.Errorf("%s: no HTTP fetcher", name)
	}

	var (
		src    model.Source
		rules  []noise.Rule
		policy merge.Policy
	)
	switch name {
	case biblegateway.Name:
		src = biblegateway.New(fetchers.HTTP, sc.Options["version"])
		rules, policy = biblegateway.Rules(), biblegateway.DefaultPolicy
	case bibliacatolica.Name:
		variant, err := bibliacatolica.ParseVariant(sc.Options["variant"])
		if err != nil {
			return nil, Pipeline{}, err
		}
		src = bibliacatolica.New(fetchers.HTTP, variant)
		rules, policy = bibliacatolica.Rules(), bibliacatolica.DefaultPolicy
	case getbible.Name:
		src = getbible.New(fetchers.HTTP, sc.Options["translation"])
		rules, policy = getbible.Rules(), getbible.DefaultPolicy
	case gratis.Name:
		src = gratis.New(fetchers.HTTP, sc.Options["edition"])
		rules, policy = gratis.Rules(), gratis.DefaultPolicy
	case stepbible.Name:
		if fetchers.Browser == nil {
			return nil, Pipeline{}, fmt.Errorf("%s: no browser fetcher", name)
		}
		src = stepbible.New(fetchers.Browser, sc.Options["version"])
		rules, policy = stepbible.Rules(), stepbible.DefaultPolicy
	case vatican.Name:
		layout, err := vatican.ParseLayout(sc.Options["layout"])
		if err != nil {
			return nil, Pipeline{}, err
		}
		if layout == vatican.Spanish {
			src = vatican.NewSpanish(fetchers.HTTP)
			rules, policy = vatican.SpanishRules(), vatican.SpanishPolicy
		} else {
			src = vatican.NewItalian(fetchers.HTTP)
			rules, policy = vatican.ItalianRules(), vatican.ItalianPolicy
		}
	default:
		return nil, Pipeline{}, fmt.Errorf("unknown source %q (known: %v)", name, Names)
	}

	pipeline := Pipeline{Stripper: noise.New(rules...), Policy: policy}
	if len(sc.Rules) > 0 {
		stripper, err := noise.Parse(sc.Rules)
		if err != nil {
			return nil, Pipeline{}, err
		}
		pipeline.Stripper = stripper
	}
	if sc.Policy != "" {
		p, err := merge.ParsePolicy(sc.Policy)
		if err != nil {
			return nil, Pipeline{}, err
		}
		pipeline.Policy = p
	}
	return src, pipeline, nil
}
