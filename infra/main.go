package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/investor-portal/infra/cloudrun"
	"github.com/GregMSThompson/investor-portal/infra/docker"
	"github.com/GregMSThompson/investor-portal/infra/firestore"
	"github.com/GregMSThompson/investor-portal/infra/identity"
	"github.com/GregMSThompson/investor-portal/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore, create the database and the chat transcript ttl
		db, err := firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, ident, db, repo)
		if err != nil {
			return err
		}

		return nil
	})
}
