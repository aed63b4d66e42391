package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/liveclass/quizServer/apikey"
	"github.com/liveclass/quizServer/config"
	"github.com/liveclass/quizServer/quiz"
	"github.com/liveclass/quizServer/server"
	"github.com/liveclass/quizServer/util"
)

const defaultPort = 8000

func main() {
	var mode string

	if len(os.Args) < 2 {
		usage()
	} else {
		mode = os.Args[1]
	}

	switch mode {
	case "server":
		var port int
		if len(os.Args) > 2 {
			var err error
			port, err = strconv.Atoi(os.Args[2])
			if err != nil {
				usage()
			}
		} else {
			port = defaultPort
		}

		cfg, e := config.GetConfig(config.CONFIGFILE)
		util.CheckAndDie(e)

		publicKey, e := apikey.LoadPublicKey(cfg.Auth.PublicKeyPath)
		util.CheckAndDie(e)

		revoked := apikey.NewRevocationList()

		ss := server.NewInstance(cfg,
			apikey.NewVerifier(publicKey, revoked),
			revoked,
			quiz.NewStore(cfg.Quiz.PageExpires))
		ss.Launch(port)
	case "keygen":
		dir := "."
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}

		publicPath, privatePath, e := apikey.GenerateKeypair(dir)
		util.CheckAndDie(e)

		fmt.Println("public key written to", publicPath)
		fmt.Println("private key written to", privatePath, "- hand it to the token issuer, the server never reads it")
	case "verify":
		if len(os.Args) < 3 {
			usage()
		}

		cfg, e := config.GetConfig(config.CONFIGFILE)
		util.CheckAndDie(e)

		publicKey, e := apikey.LoadPublicKey(cfg.Auth.PublicKeyPath)
		util.CheckAndDie(e)

		claim, e := apikey.NewVerifier(publicKey, nil).Verify(os.Args[2])
		util.CheckAndDie(e)

		fmt.Printf("token OK : id=%s email=%s expires=%s\n", claim.TokenID, claim.Email, claim.Expires)
	default:
		usage()
	}
}

func usage() {
	fmt.Printf("%s [server|keygen|verify] [option]\n", os.Args[0])
	fmt.Printf(" server mode : %s server [port]\n", os.Args[0])
	fmt.Printf("    port : default %d\n", defaultPort)
	fmt.Printf(" keypair generate mode : %s keygen [dir]\n", os.Args[0])
	fmt.Printf("    dir : output directory, default current\n")
	fmt.Printf(" token check mode : %s verify [token]\n", os.Args[0])
	fmt.Printf("    token : presenter api key to verify\n")
	os.Exit(-1)
}
