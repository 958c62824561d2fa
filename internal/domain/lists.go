package domain

// publicProviders are consumer mail services. An address on one of these is
// trusted no matter which site it was found on.
var publicProviders = []string{
	"gmail.com", "googlemail.com",
	"outlook.com", "hotmail.com", "live.com", "msn.com",
	"icloud.com", "me.com", "mac.com",
	"yahoo.com", "ymail.com", "rocketmail.com",
	"protonmail.com", "proton.me",
	"tutanota.com", "tutamail.com",
	"aol.com", "mail.com", "zoho.com", "fastmail.com", "hey.com",
	"riseup.net", "disroot.org",
}

// excluded are social, storefront, aggregator and app store sites that never
// host an artist's own contact address.
var excluded = []string{
	// social and streaming
	"instagram.com", "facebook.com", "twitter.com", "x.com", "youtube.com",
	"tiktok.com", "soundcloud.com", "twitch.tv", "reverbnation.com",
	"spotify.com", "tumblr.com", "bandcamp.com", "bsky.app", "vk.com",
	"genius.com", "mixcloud.com", "discogs.com",
	// storefronts
	"redbubble.com", "bigcartel.com", "storenvy.com", "limitedrun.com",
	// link aggregators
	"patreon.com", "linktr.ee", "bio.link", "beacons.ai",
	// app stores
	"play.google.com", "apps.apple.com", "itunes.apple.com",
}

// PublicProviders returns the default set of public email provider domains.
func PublicProviders() Set {
	return NewSet(publicProviders...)
}

// Excluded returns the default set of domains skipped when looking for an
// artist's own website.
func Excluded() Set {
	return NewSet(excluded...)
}
