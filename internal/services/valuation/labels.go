package valuation

import (
	"fmt"
	"strings"

	"FarmYield/internal/domain/models"
)

const (
	oneInchSuffix = " 1INCH LP"
	oneInchLink   = "https://1inch.exchange/#/dao/pools"
	defaultSuffix = " Uni LP"
)

// labelRule tags LP tokens of one AMM. link may contain {address}; an empty
// link falls back to the chain explorer.
type labelRule struct {
	match  func(symbol, name string) bool
	suffix string
	link   string
}

func symbolHas(sub string) func(string, string) bool {
	return func(symbol, _ string) bool { return strings.Contains(symbol, sub) }
}

func nameHas(sub string) func(string, string) bool {
	return func(_, name string) bool { return strings.Contains(name, sub) }
}

// labelRules is matched in order; the first hit wins. Broad patterns such as
// SLP and BLP sit below the longer symbols that contain them.
var labelRules = []labelRule{
	{symbolHas("TETHYSLP"), " TETHYS LP", "https://info.tethys.finance/pair/{address}"},
	{symbolHas("LSLP"), " LSLP", "https://info.linkswap.app/pair/{address}"},
	{symbolHas("vAMM"), " vAMM", ""},
	{symbolHas("sAMM"), " sAMM", ""},
	{symbolHas("Wigo-LP"), " Wigo-LP", "https://wigoswap.io/analytics/pool/{address}"},
	{symbolHas("DXS"), " DXS-LP", "https://dxstats.eth.link/#/pair/{address}"},
	{symbolHas("HAUS-LP"), " HAUS-LP", "https://app.next-gen.finance/info/pool/{address}"},
	{symbolHas("HBLP"), " Huckleberry LP", "https://info.huckleberry.finance/pair/{address}"},
	{symbolHas("BLP"), " BLP", "https://info.bakeryswap.org/#/pair/{address}"},
	{symbolHas("BEAM-LP"), " BEAM-LP", "https://analytics.beamswap.io/pairs/{address}"},
	{symbolHas("ZDEXLP"), " ZooDex LP", "https://charts.zoocoin.cash/?exchange=ZooDex"},
	{symbolHas("OperaSwap"), " Opera Swap LP", "https://www.operaswap.finance/"},
	{symbolHas("SLP"), " SLP", ""},
	{symbolHas("Farmtom-LP"), " Farmtom LP", "https://farmtom.com/swap"},
	{symbolHas("Cake"), " Cake LP", "https://pancakeswap.info/pair/{address}"},
	{nameHas("Value LP"), " Value LP", "https://info.vswap.fi/pool/{address}"},
	{nameHas("Duneswap LP Token"), " Duneswap LP", "https://explorer.emerald.oasis.dev/token/{address}"},
	{nameHas("Lizard LPs"), " LLP", "https://explorer.emerald.oasis.dev/token/{address}"},
	{nameHas("Gemkeeper LP Token"), " GLP", "https://explorer.emerald.oasis.dev/token/{address}"},
	{symbolHas("PGL"), " PGL", "https://info.pangolin.exchange/#/pair/{address}"},
	{symbolHas("JLP"), " JLP", "https://cchain.explorer.avax.network/address/{address}"},
	{symbolHas("CS-LP"), " CSS LP", "https://app.coinswap.space/#/"},
	{symbolHas("DFYN"), " DFYN LP", ""},
	{symbolHas("NMX-LP"), " NMX LP", "https://nomiswap.io/swap"},
	{symbolHas("SPIRIT"), " SPIRIT LP", "https://swap.spiritswap.finance/#/swap"},
	{symbolHas("TOMB-V2-LP"), " TOMB-V2 LP", "https://swap.tomb.com/#/swap"},
	{symbolHas("spLP"), " SPOOKY LP", "https://info.spookyswap.finance/pair/{address}"},
	{symbolHas("Lv1"), " STEAK LP", "https://info.steakhouse.finance/pair/{address}"},
	{symbolHas("PLP"), " Pure Swap LP", "https://exchange.pureswap.finance/#/swap"},
	{symbolHas("Field-LP"), " Yield Fields LP", "https://exchange.yieldfields.finance/#/swap"},
	{symbolHas("UPT"), " Unic Swap LP", "https://www.app.unic.ly/#/discover"},
	{symbolHas("ELP"), " ELK LP", "https://app.elk.finance/#/swap"},
	{symbolHas("BenSwap"), " BenSwap LP", ""},
	{nameHas("MISTswap LP Token"), " MistSwap LP", "https://analytics.mistswap.fi/pairs/{address}"},
	{nameHas("TANGOswap LP Token"), " TangoSwap LP", ""},
	{nameHas("Flare LP Token"), " FLP LP", "https://analytics.solarflare.io/pairs/{address}"},
	{symbolHas("BRUSH-LP"), " BRUSH LP", "https://paintswap.finance"},
	{symbolHas("APE-LP"), " APE LP", "https://info.apeswap.finance/pair/{address}"},
	{symbolHas("Galaxy-LP"), " Galaxy LP", ""},
	{symbolHas("KUS-LP"), " KUS LP", "https://kuswap.info/pair/#/{address}"},
	{symbolHas("KoffeeMug"), " KoffeeMug", "https://koffeeswap.exchange/#/pro"},
	{symbolHas("DMM-LP"), " DMM-LP", ""},
	{symbolHas("ZLK-LP"), " ZLK-LP", "https://dex.zenlink.pro/#/info/overview"},
	{symbolHas("CAT-LP"), " PolyCat LP", "https://polycat.finance"},
	{symbolHas("VLP"), " AURO LP", "https://info.viralata.finance/pair/{address}"},
	{symbolHas("DLP"), " DLP", "https://app.dodoex.io/pool/list?{address}"},
	{symbolHas("ULP"), " Ubeswap LP Token", "https://info.ubeswap.org/pair/{address}"},
	{symbolHas("LOVE LP"), " Love Boat Love LP Token", "https://info.loveboat.exchange/pair/{address}"},
	{symbolHas("Proto-LP"), " ProtoFi LP Token", ""},
	{symbolHas("SOUL-LP"), " Soulswap LP Token", ""},
	{symbolHas("lv_"), " Lixir LP Token", "https://app.lixir.finance/vaults/{address}"},
	{symbolHas("LOOT-LP"), " Loot LP Token", "https://analytics.lootswap.finance/pair/{address}"},
	{symbolHas("MIMO-LP"), " Mimo LP Token", "https://v2.info.mimo.exchange/pair/{address}"},
	{symbolHas("HLP"), " Hades Swap LP Token", "https://analytics.hadesswap.finance/pairs/{address}"},
	{nameHas("1BCH LP Token"), " 1BCH LP", ""},
	{symbolHas("MOCHI-LP"), " Mochi LP Token", "https://harmony.mochiswap.io/"},
	{symbolHas("SMUG-LP"), " Smug LP Token", "https://smugswap.com/"},
	{symbolHas("VVS-LP"), " VVS LP Token", "https://vvs.finance/info/farm/{address}"},
	{symbolHas("CNO-LP"), " CNO LP Token", "https://chronoswap.org/info/pool/{address}"},
	{symbolHas("Crona-LP"), " Crona LP Token", "https://app.cronaswap.org/info/{address}"},
	{symbolHas("Genesis-LP"), " Genesis LP Token", "https://app.cronaswap.org/info/{address}"},
	{symbolHas("Wagyu-LP"), " Wagyu LP Token", "https://exchange.wagyuswap.app/info/pool/{address}"},
	{symbolHas("OLP"), " Oolong LP Token", "https://info.oolongswap.com/#/pair/{address}"},
	{
		func(symbol, name string) bool {
			return strings.Contains(symbol, "TLP") && !strings.Contains(name, "Thorus LP")
		},
		" Trisolaris LP Token", "",
	},
	{
		func(symbol, name string) bool {
			return strings.Contains(symbol, "TLP") && strings.Contains(name, "Thorus LP")
		},
		" Thorus LP Token", "",
	},
	{symbolHas("SCLP"), " SwapperChan LP Token", "https://analytics.swapperchan.com/pairs/{address}"},
	{symbolHas("VENOM-LP"), " VENOM-LP Token", "https://info.viper.exchange/pairs/{address}"},
	{symbolHas("Charm-LP"), " OmniDex LP Token", "https://analytics.omnidex.finance/pair/{address}"},
	{symbolHas("zLP"), " Zappy LP Token", "https://analytics.zappy.finance/pair/{address}"},
	{symbolHas("MEERKAT-LP"), " MEERKAT-LP Token", ""},
	{symbolHas("STELLA LP"), " STELLA LP Token", ""},
}

// Label builds the display ticker and info link of a pair.
func Label(pool, t0, t1 *models.Token, explorerURL string) (string, string) {
	ticker := fmt.Sprintf("[%s]-[%s]", t0.Symbol, t1.Symbol)
	if pool.BalanceReserves {
		return ticker + oneInchSuffix, oneInchLink
	}

	address := pool.Address.Hex()
	var fallback string
	if explorerURL != "" {
		fallback = strings.TrimRight(explorerURL, "/") + "/address/" + address
	}
	for _, r := range labelRules {
		if !r.match(pool.Symbol, pool.Name) {
			continue
		}
		if r.link == "" {
			return ticker + r.suffix, fallback
		}
		return ticker + r.suffix, strings.ReplaceAll(r.link, "{address}", address)
	}
	return ticker + defaultSuffix, fallback
}
